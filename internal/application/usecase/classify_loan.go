package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

// ClassifyLoanUseCase records a loan's NPA category and provision.
type ClassifyLoanUseCase struct {
	repo      port.NPARecordRepository
	publisher port.EventPublisher
	metrics   port.RiskMetrics
	logger    *slog.Logger
	now       Clock
}

func NewClassifyLoanUseCase(
	repo port.NPARecordRepository,
	publisher port.EventPublisher,
	metrics port.RiskMetrics,
	logger *slog.Logger,
) *ClassifyLoanUseCase {
	return &ClassifyLoanUseCase{
		repo:      repo,
		publisher: publisher,
		metrics:   metricsOrNoop(metrics),
		logger:    logger,
		now:       utcNow,
	}
}

// WithClock replaces the time source.
func (uc *ClassifyLoanUseCase) WithClock(now Clock) *ClassifyLoanUseCase {
	uc.now = now
	return uc
}

// Execute classifies the loan and upserts its record.
func (uc *ClassifyLoanUseCase) Execute(ctx context.Context, req dto.ClassifyLoanRequest) (dto.NPARecordResponse, error) {
	ctx, span := tracer.Start(ctx, "ClassifyLoan")
	defer span.End()

	now := uc.now()
	c := service.ClassifyLoan(req.OverdueDays, req.OutstandingAmount)
	span.SetAttributes(attribute.String("npa.category", c.Category.String()))

	// 1. Load or create the record.
	existing, err := uc.repo.FindByLoanID(ctx, req.TenantID, req.LoanID)
	var record model.NPARecord
	switch {
	case errors.Is(err, model.ErrNotFound):
		record, err = model.NewNPARecord(req.TenantID, req.LoanID, req.OverdueDays, req.OutstandingAmount, c, now)
	case err != nil:
		return dto.NPARecordResponse{}, failSpan(span, fmt.Errorf("find npa record: %w", err))
	default:
		record, err = existing.Reclassify(req.OverdueDays, req.OutstandingAmount, c, now)
	}
	if err != nil {
		return dto.NPARecordResponse{}, failSpan(span, fmt.Errorf("classify loan: %w", err))
	}

	// 2. Persist.
	if err := uc.repo.Save(ctx, record); err != nil {
		return dto.NPARecordResponse{}, failSpan(span, fmt.Errorf("save npa record: %w", err))
	}
	uc.metrics.RecordNPAClassification(ctx, record.Category().String())

	// 3. Publish; a category change is already durable if this fails.
	events := record.DomainEvents()
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish npa events", "loan_id", req.LoanID, "error", err)
		}
	}

	resp := ToNPARecordResponse(record)
	resp.CategoryChanged = len(events) > 0
	return resp, nil
}

// ToNPARecordResponse renders a record for transport.
func ToNPARecordResponse(r model.NPARecord) dto.NPARecordResponse {
	return dto.NPARecordResponse{
		ID:                r.ID(),
		LoanID:            r.LoanID(),
		OverdueDays:       r.OverdueDays(),
		OutstandingAmount: r.OutstandingAmount(),
		Category:          r.Category().String(),
		ProvisionRate:     r.Category().ProvisionRate(),
		ProvisionAmount:   r.ProvisionAmount(),
		NonPerforming:     r.Category().IsNonPerforming(),
		Version:           r.Version(),
		UpdatedAt:         r.UpdatedAt(),
	}
}
