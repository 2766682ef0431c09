package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

// applicationFlags describe one application on the command line.
func applicationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "customer", Usage: "Customer identifier", Value: "CLI"},
		&cli.FloatFlag{Name: "loan-amount", Usage: "Requested principal"},
		&cli.IntFlag{Name: "tenure", Usage: "Tenure in months"},
		&cli.FloatFlag{Name: "rate", Usage: "Annual interest rate in percent, e.g. 9.5"},
		&cli.FloatFlag{Name: "income", Usage: "Monthly income"},
		&cli.FloatFlag{Name: "experience", Usage: "Years of work experience"},
		&cli.FloatFlag{Name: "age", Usage: "Applicant age in years (overrides --dob)"},
		&cli.StringFlag{Name: "dob", Usage: "Date of birth (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "purpose", Usage: "Loan purpose, e.g. \"Home Purchase\""},
		&cli.StringFlag{Name: "employment", Usage: "Employment type, e.g. Salaried"},
		&cli.FloatFlag{Name: "collateral", Usage: "Collateral value"},
	}
}

func applicationFromFlags(cmd *cli.Command) dto.AssessApplicationRequest {
	req := dto.AssessApplicationRequest{
		TenantID:          offlineTenant,
		CustomerID:        cmd.String("customer"),
		LoanAmount:        cmd.Float("loan-amount"),
		TenureMonths:      int(cmd.Int("tenure")),
		InterestRate:      cmd.Float("rate"),
		MonthlyIncome:     cmd.Float("income"),
		YearsOfExperience: cmd.Float("experience"),
		DateOfBirth:       cmd.String("dob"),
		LoanPurpose:       cmd.String("purpose"),
		EmploymentType:    cmd.String("employment"),
		CollateralValue:   cmd.Float("collateral"),
	}
	if cmd.IsSet("age") {
		age := cmd.Float("age")
		req.Age = &age
	}
	return req
}

// readApplications decodes a YAML or JSON file holding one application or a
// list of them. JSON is accepted because it is valid YAML.
func readApplications(path string) ([]dto.AssessApplicationRequest, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.SequenceNode {
		var apps []dto.AssessApplicationRequest
		if err := root.Decode(&apps); err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", path, err)
		}
		return apps, true, nil
	}

	var single dto.AssessApplicationRequest
	if err := root.Decode(&single); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return []dto.AssessApplicationRequest{single}, false, nil
}

func (a *app) assessCmd() *cli.Command {
	return &cli.Command{
		Name:  "assess",
		Usage: "Score one application from flags, or one or many from --file",
		Flags: append(applicationFlags(),
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "YAML or JSON file with an application or a list of applications"},
			&cli.IntFlag{Name: "concurrency", Usage: "Parallel scoring for batch files", Value: 4},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			single := usecase.NewAssessApplicationUseCase(service.NewRiskAssessor(a.models, a.logger), nil, nil, nil, a.logger)

			path := cmd.String("file")
			if path == "" {
				resp, err := single.Execute(ctx, applicationFromFlags(cmd))
				if err != nil {
					return err
				}
				return a.encode(resp)
			}

			apps, isList, err := readApplications(path)
			if err != nil {
				return err
			}
			if !isList {
				app := apps[0]
				if app.TenantID == "" {
					app.TenantID = offlineTenant
				}
				resp, err := single.Execute(ctx, app)
				if err != nil {
					return err
				}
				return a.encode(resp)
			}

			batch := usecase.NewBatchAssessUseCase(single, int(cmd.Int("concurrency")), a.logger)
			resp, err := batch.Execute(ctx, dto.BatchAssessRequest{TenantID: offlineTenant, Applications: apps})
			if err != nil {
				return err
			}
			return a.encode(resp)
		},
	}
}

func (a *app) quoteCmd() *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Compute EMI and affordability ratios without scoring",
		Flags: []cli.Flag{
			&cli.FloatFlag{Name: "loan-amount", Usage: "Requested principal", Required: true},
			&cli.IntFlag{Name: "tenure", Usage: "Tenure in months", Required: true},
			&cli.FloatFlag{Name: "rate", Usage: "Annual interest rate in percent"},
			&cli.FloatFlag{Name: "income", Usage: "Monthly income"},
			&cli.FloatFlag{Name: "collateral", Usage: "Collateral value"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			resp, err := usecase.NewQuoteLoanUseCase().Execute(ctx, dto.QuoteLoanRequest{
				LoanAmount:      cmd.Float("loan-amount"),
				TenureMonths:    int(cmd.Int("tenure")),
				InterestRate:    cmd.Float("rate"),
				MonthlyIncome:   cmd.Float("income"),
				CollateralValue: cmd.Float("collateral"),
			})
			if err != nil {
				return err
			}
			return a.encode(resp)
		},
	}
}

// featureRow is one model input row, values aligned with columns.
type featureRow struct {
	Columns []string  `json:"columns" yaml:"columns"`
	Values  []float64 `json:"values" yaml:"values"`
}

func (a *app) featuresCmd() *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Print the model input row for an application in column order",
		Flags: applicationFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := applicationFromFlags(cmd)
			in := model.ProfileInput{
				LoanAmount:         req.LoanAmount,
				TenureMonths:       req.TenureMonths,
				AnnualInterestRate: req.InterestRate,
				MonthlyIncome:      req.MonthlyIncome,
				YearsExperience:    req.YearsOfExperience,
				Age:                req.Age,
				LoanPurpose:        req.LoanPurpose,
				EmploymentType:     req.EmploymentType,
				CollateralValue:    req.CollateralValue,
			}
			if req.Age == nil && req.DateOfBirth != "" {
				dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
				if err != nil {
					return fmt.Errorf("%w: --dob %q is not YYYY-MM-DD", model.ErrInvalidInput, req.DateOfBirth)
				}
				in.DateOfBirth = dob
			}
			profile, err := model.NewFinancialProfile(in, nowUTC())
			if err != nil {
				return err
			}

			schema := model.DefaultSchema()
			if a.models != nil {
				if m, err := a.models.Model(ctx); err == nil {
					schema = m.Schema()
				} else {
					a.logger.WarnContext(ctx, "model unavailable, using default columns", "error", err)
				}
			}

			vec, _, err := service.FeaturesFor(profile, schema)
			if err != nil {
				return err
			}
			return a.encode(featureRow{Columns: schema.Columns(), Values: vec.Values()})
		},
	}
}
