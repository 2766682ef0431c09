package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/internal/infrastructure/ml"
)

// verifyResult summarises a model artifact and a sample scoring run.
type verifyResult struct {
	ModelID           string               `json:"model_id" yaml:"model_id"`
	Columns           int                  `json:"columns" yaml:"columns"`
	Attribution       bool                 `json:"attribution" yaml:"attribution"`
	SampleProbability float64              `json:"sample_probability" yaml:"sample_probability"`
	TopContributors   []model.Contribution `json:"top_contributors,omitempty" yaml:"top_contributors,omitempty"`
}

// sampleProfile is a mid-range applicant used to exercise a loaded model.
func sampleProfile() (model.FinancialProfile, error) {
	return model.NewFinancialProfile(model.ProfileInput{
		LoanAmount:         500_000,
		TenureMonths:       36,
		AnnualInterestRate: 10.5,
		MonthlyIncome:      60_000,
		YearsExperience:    6,
		LoanPurpose:        "Personal",
		EmploymentType:     "Salaried",
	}, nowUTC())
}

// staticModel serves one already-loaded model.
type staticModel struct{ m *model.LoadedModel }

func (s staticModel) Model(context.Context) (*model.LoadedModel, error) { return s.m, nil }

func (a *app) modelCmd() *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "Model artifact operations",
		Commands: []*cli.Command{
			{
				Name:      "verify",
				Usage:     "Load a model directory and score a sample application",
				ArgsUsage: "[dir]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := cmd.Args().First()
					if dir == "" {
						dir = cmd.String(modelDirFlag.Name)
					}
					if dir == "" {
						return fmt.Errorf("model directory is required (argument or --model-dir)")
					}

					m, err := ml.LoadDir(dir)
					if err != nil {
						return err
					}
					defer closeClassifier(m)

					profile, err := sampleProfile()
					if err != nil {
						return err
					}
					vec, _, err := service.FeaturesFor(profile, m.Schema())
					if err != nil {
						return fmt.Errorf("build sample features: %w", err)
					}
					prob, err := m.Classifier().PredictProba(ctx, vec)
					if err != nil {
						return fmt.Errorf("sample prediction: %w", err)
					}
					if prob < 0 || prob > 1 {
						return fmt.Errorf("sample prediction %v outside [0,1]", prob)
					}

					res := verifyResult{
						ModelID:           m.ID(),
						Columns:           m.Schema().Width(),
						Attribution:       m.SupportsAttribution(),
						SampleProbability: prob,
					}
					if m.SupportsAttribution() {
						d, err := service.NewRiskAssessor(staticModel{m}, a.logger).Assess(ctx, profile)
						if err != nil {
							return err
						}
						if d.Degradation != "" {
							return fmt.Errorf("model %s: sample explanation degraded: %s", m.ID(), d.Degradation)
						}
						res.TopContributors = d.Contributors
					}
					return a.encode(res)
				},
			},
		},
	}
}

func closeClassifier(m *model.LoadedModel) {
	if c, ok := m.Classifier().(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
