package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
)

// GetAssessmentUseCase reads an assessment through the cache. cache may be nil.
type GetAssessmentUseCase struct {
	repo   port.AssessmentRepository
	cache  port.AssessmentCache
	logger *slog.Logger
}

func NewGetAssessmentUseCase(repo port.AssessmentRepository, cache port.AssessmentCache, logger *slog.Logger) *GetAssessmentUseCase {
	return &GetAssessmentUseCase{repo: repo, cache: cache, logger: logger}
}

func (uc *GetAssessmentUseCase) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	ctx, span := tracer.Start(ctx, "GetAssessment")
	defer span.End()

	if req.AssessmentID == "" {
		return dto.AssessmentResponse{}, failSpan(span, fmt.Errorf("%w: assessment id is required", model.ErrInvalidInput))
	}

	if uc.cache != nil {
		a, found, err := uc.cache.Get(ctx, req.TenantID, req.AssessmentID)
		switch {
		case err != nil:
			uc.logger.WarnContext(ctx, "assessment cache read failed", "assessment_id", req.AssessmentID, "error", err)
		case found:
			return toAssessmentResponse(a), nil
		}
	}

	a, err := uc.repo.FindByID(ctx, req.TenantID, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, failSpan(span, fmt.Errorf("find assessment: %w", err))
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, a); err != nil {
			uc.logger.WarnContext(ctx, "assessment cache write failed", "assessment_id", a.ID(), "error", err)
		}
	}
	return toAssessmentResponse(a), nil
}
