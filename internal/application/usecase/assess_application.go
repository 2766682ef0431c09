package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

// AssessApplicationUseCase scores one application, persists the decision and
// publishes its events. repo and publisher may be nil for offline scoring.
type AssessApplicationUseCase struct {
	assessor  *service.RiskAssessor
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	metrics   port.RiskMetrics
	logger    *slog.Logger
	now       Clock
}

// NewAssessApplicationUseCase wires dependencies.
func NewAssessApplicationUseCase(
	assessor *service.RiskAssessor,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	metrics port.RiskMetrics,
	logger *slog.Logger,
) *AssessApplicationUseCase {
	return &AssessApplicationUseCase{
		assessor:  assessor,
		repo:      repo,
		publisher: publisher,
		metrics:   metricsOrNoop(metrics),
		logger:    logger,
		now:       utcNow,
	}
}

// WithClock replaces the time source.
func (uc *AssessApplicationUseCase) WithClock(now Clock) *AssessApplicationUseCase {
	uc.now = now
	return uc
}

// Execute scores req and returns the stored decision.
func (uc *AssessApplicationUseCase) Execute(ctx context.Context, req dto.AssessApplicationRequest) (dto.AssessmentResponse, error) {
	ctx, span := tracer.Start(ctx, "AssessApplication", trace.WithAttributes(
		attribute.String("tenant_id", req.TenantID),
		attribute.String("customer_id", req.CustomerID),
	))
	defer span.End()

	resp, err := uc.assess(ctx, req)
	if err != nil {
		return dto.AssessmentResponse{}, failSpan(span, err)
	}
	span.SetAttributes(
		attribute.String("risk.status", resp.Status),
		attribute.String("risk.model_used", resp.ModelUsed),
	)
	return resp, nil
}

func (uc *AssessApplicationUseCase) assess(ctx context.Context, req dto.AssessApplicationRequest) (dto.AssessmentResponse, error) {
	start := time.Now()
	now := uc.now()

	// 1. Validate the boundary input.
	profile, err := profileFromRequest(req, now)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("build profile: %w", err)
	}

	// 2. Score.
	decision, err := uc.assessor.Assess(ctx, profile)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("assess: %w", err)
	}
	elapsed := time.Since(start)

	// 3. Wrap the decision in an aggregate.
	assessment, err := model.NewRiskAssessment(model.AssessmentParams{
		TenantID:       req.TenantID,
		CustomerID:     req.CustomerID,
		LoanAmount:     profile.LoanAmount(),
		TenureMonths:   profile.TenureMonths(),
		InterestRate:   profile.AnnualInterestRate(),
		LoanPurpose:    profile.LoanPurpose(),
		Probability:    decision.Probability,
		CreditScore:    decision.CreditScore,
		Level:          decision.Level,
		Status:         decision.Status,
		Recommendation: decision.Recommendation,
		ModelUsed:      decision.ModelUsed,
		Contributors:   decision.Contributors,
		Factors:        decision.Factors,
		ProcessingTime: elapsed,
	}, now)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("create assessment: %w", err)
	}

	uc.metrics.RecordAssessment(ctx, decision.Strategy, decision.Status.String(), decision.Probability, elapsed)
	if decision.Degradation != "" {
		uc.metrics.RecordFallback(ctx, decision.Degradation)
	}

	// 4. Persist.
	if uc.repo != nil {
		if err := uc.repo.Save(ctx, assessment); err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("save assessment: %w", err)
		}
	}

	// 5. Publish domain events; the decision stands if this fails.
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, assessment.DomainEvents()...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish assessment events",
				"assessment_id", assessment.ID(),
				"error", err,
			)
		}
	}

	uc.logger.InfoContext(ctx, "application assessed",
		"assessment_id", assessment.ID(),
		"tenant_id", assessment.TenantID(),
		"status", assessment.Status().String(),
		"model_used", assessment.ModelUsed(),
		"strategy", decision.Strategy,
		"processing_ms", elapsed.Milliseconds(),
	)
	return toAssessmentResponse(assessment), nil
}

const dateLayout = "2006-01-02"

func profileFromRequest(req dto.AssessApplicationRequest, now time.Time) (model.FinancialProfile, error) {
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
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return model.FinancialProfile{}, fmt.Errorf("%w: date_of_birth %q is not YYYY-MM-DD", model.ErrInvalidInput, req.DateOfBirth)
		}
		in.DateOfBirth = dob
	}
	return model.NewFinancialProfile(in, now)
}

func toAssessmentResponse(a model.RiskAssessment) dto.AssessmentResponse {
	contributors := a.Contributors()
	if contributors == nil {
		contributors = []model.Contribution{}
	}
	return dto.AssessmentResponse{
		ApplicationID:    a.ID(),
		TenantID:         a.TenantID(),
		CustomerID:       a.CustomerID(),
		RiskProbability:  a.RiskProbability(),
		CreditScore:      a.CreditScore(),
		RiskLevel:        a.RiskLevel().String(),
		Status:           a.Status().String(),
		Recommendation:   a.Recommendation(),
		ModelUsed:        a.ModelUsed(),
		TopRiskFactors:   contributors,
		Factors:          a.Factors(),
		ProcessingTimeMS: float64(a.ProcessingTime().Microseconds()) / 1000,
		CreatedAt:        a.CreatedAt(),
	}
}
