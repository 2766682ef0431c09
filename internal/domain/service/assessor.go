package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// FallbackModelID identifies decisions made without a trained model.
const FallbackModelID = "rule_based_fallback"

// Reasons a decision took a degraded path. Kept low-cardinality for metrics.
const (
	ReasonModelUnavailable       = "model_unavailable"
	ReasonAttributionUnavailable = "attribution_unavailable"
	ReasonInferenceFailed        = "inference_failed"
	ReasonAttributionFailed      = "attribution_failed"
)

// Strategy names.
const (
	StrategyModel    = "model"
	StrategyFallback = "fallback"
)

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

// Strategy is implemented only by ModelStrategy and FallbackStrategy.
type Strategy interface {
	Name() string
	evaluate(ctx context.Context, p model.FinancialProfile, core model.CoreFeatures) (Prediction, error)
}

// Prediction is a strategy's raw output before scoring and ranking.
type Prediction struct {
	Probability   float64
	Contributions []model.Contribution
	ModelID       string
	// Degradation is set when the strategy fell back internally.
	Degradation string
}

// ModelStrategy scores with a trained classifier and explains the result by
// occlusion against the model's baseline.
type ModelStrategy struct {
	Model *model.LoadedModel
}

// FallbackStrategy scores from the debt-to-income ratio alone.
type FallbackStrategy struct {
	Reason string
}

func (ModelStrategy) Name() string    { return StrategyModel }
func (FallbackStrategy) Name() string { return StrategyFallback }

// SelectStrategy picks ModelStrategy when provider yields a model that
// supports attribution, and FallbackStrategy otherwise.
func SelectStrategy(ctx context.Context, provider port.ModelProvider) Strategy {
	if provider == nil {
		return FallbackStrategy{Reason: ReasonModelUnavailable}
	}
	m, err := provider.Model(ctx)
	if err != nil || m == nil {
		return FallbackStrategy{Reason: ReasonModelUnavailable}
	}
	if !m.SupportsAttribution() {
		return FallbackStrategy{Reason: ReasonAttributionUnavailable}
	}
	return ModelStrategy{Model: m}
}

func (s ModelStrategy) evaluate(ctx context.Context, p model.FinancialProfile, core model.CoreFeatures) (Prediction, error) {
	vec, err := BuildFeatureVector(core, p.LoanPurpose(), p.EmploymentType(), s.Model.Schema())
	if err != nil {
		return Prediction{}, fmt.Errorf("build feature vector: %w", err)
	}

	clf := s.Model.Classifier()
	prob, err := predict(ctx, clf, vec)
	if err != nil {
		return Prediction{}, err
	}

	pred := Prediction{Probability: prob, ModelID: s.Model.ID()}
	contributions, err := occlusion(ctx, clf, s.Model, vec, prob)
	if err != nil {
		pred.Contributions = importanceContributions(s.Model, prob)
		pred.Degradation = ReasonAttributionFailed
		return pred, nil
	}
	pred.Contributions = contributions
	return pred, nil
}

func (s FallbackStrategy) evaluate(_ context.Context, _ model.FinancialProfile, core model.CoreFeatures) (Prediction, error) {
	dti := core.DebtToIncomeRatio
	return Prediction{
		Probability: FallbackProbability(dti),
		Contributions: []model.Contribution{
			{Feature: "debt_to_income_ratio", Impact: round(dti*0.8, 4)},
			{Feature: "loan_to_income_ratio", Impact: round(math.Min(core.LoanToIncomeRatio*0.04, 0.3), 4)},
			{Feature: "monthly_income", Impact: round(-core.MonthlyIncome/500000, 4)},
		},
		ModelID:     FallbackModelID,
		Degradation: s.Reason,
	}, nil
}

// FallbackProbability is a five-step function of dti with no interpolation.
func FallbackProbability(dti float64) float64 {
	switch {
	case dti > 0.50:
		return 0.85
	case dti > 0.40:
		return 0.60
	case dti > 0.30:
		return 0.35
	case dti > 0.20:
		return 0.15
	default:
		return 0.08
	}
}

// ---------------------------------------------------------------------------
// Attribution
// ---------------------------------------------------------------------------

var errBadProbability = errors.New("classifier returned a probability outside [0,1]")

func predict(ctx context.Context, clf model.Classifier, vec model.FeatureVector) (float64, error) {
	p, err := clf.PredictProba(ctx, vec)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("predict: %w: %v", errBadProbability, p)
	}
	return p, nil
}

// occlusion attributes prob to each column as the drop in probability when
// that column is replaced by its baseline value.
func occlusion(ctx context.Context, clf model.Classifier, m *model.LoadedModel, vec model.FeatureVector, prob float64) ([]model.Contribution, error) {
	schema := vec.Schema()
	out := make([]model.Contribution, 0, vec.Len())
	for i := 0; i < vec.Len(); i++ {
		col := schema.Column(i)
		base := m.Baseline(col)
		if vec.At(i) == base {
			out = append(out, model.Contribution{Feature: col})
			continue
		}
		occluded, err := predict(ctx, clf, vec.With(i, base))
		if err != nil {
			return nil, fmt.Errorf("occlude %s: %w", col, err)
		}
		out = append(out, model.Contribution{Feature: col, Impact: round(prob-occluded, 4)})
	}
	return out, nil
}

// importanceContributions signs the static importances by the direction of
// the current prediction.
func importanceContributions(m *model.LoadedModel, prob float64) []model.Contribution {
	sign := -1.0
	if prob > 0.5 {
		sign = 1.0
	}
	top := m.TopImportances(DefaultTopK)
	for i := range top {
		top[i].Impact = round(sign*top[i].Impact, 4)
	}
	return top
}

// ---------------------------------------------------------------------------
// RiskAssessor
// ---------------------------------------------------------------------------

// Decision is the full scored outcome for one profile.
type Decision struct {
	Probability    float64
	CreditScore    float64
	Level          valueobject.RiskLevel
	Status         valueobject.ApplicationStatus
	Recommendation string
	ModelUsed      string
	Contributors   []model.Contribution
	Factors        model.Factors
	Features       model.CoreFeatures
	Strategy       string
	Degradation    string
}

// RiskAssessor runs one strategy per call and always produces a decision
// for a valid profile, whatever the state of the model.
type RiskAssessor struct {
	models port.ModelProvider
	logger *slog.Logger
}

// NewRiskAssessor creates an assessor. models may be nil for rules-only use.
func NewRiskAssessor(models port.ModelProvider, logger *slog.Logger) *RiskAssessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskAssessor{models: models, logger: logger}
}

// Assess scores p. It only fails if p cannot be turned into features.
func (a *RiskAssessor) Assess(ctx context.Context, p model.FinancialProfile) (Decision, error) {
	core, err := DeriveFeatures(p)
	if err != nil {
		return Decision{}, fmt.Errorf("derive features: %w", err)
	}

	strategy := SelectStrategy(ctx, a.models)
	pred, err := strategy.evaluate(ctx, p, core)
	if err != nil {
		a.logger.WarnContext(ctx, "model scoring failed, using rule-based fallback",
			"strategy", strategy.Name(),
			"error", err,
		)
		strategy = FallbackStrategy{Reason: ReasonInferenceFailed}
		pred, _ = strategy.evaluate(ctx, p, core)
	}
	if pred.Degradation != "" {
		a.logger.DebugContext(ctx, "degraded risk assessment",
			"strategy", strategy.Name(),
			"reason", pred.Degradation,
		)
	}

	return a.decide(core, strategy.Name(), pred), nil
}

func (a *RiskAssessor) decide(core model.CoreFeatures, strategy string, pred Prediction) Decision {
	prob := pred.Probability
	score := CreditScore(prob)
	dti, lti := core.DebtToIncomeRatio, core.LoanToIncomeRatio

	return Decision{
		Probability:    round(prob, 4),
		CreditScore:    score,
		Level:          LevelFor(prob),
		Status:         StatusFor(prob),
		Recommendation: Recommend(prob, dti, lti, score),
		ModelUsed:      pred.ModelID,
		Contributors:   RankContributions(pred.Contributions, DefaultTopK),
		Factors: model.Factors{
			DTIPercent:    round(dti*100, 2),
			LTI:           round(lti, 2),
			EstimatedEMI:  core.EstimatedEMI,
			MonthlyIncome: core.MonthlyIncome,
		},
		Features:    core,
		Strategy:    strategy,
		Degradation: pred.Degradation,
	}
}
