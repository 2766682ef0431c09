package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListAssessmentsUseCase pages through stored assessments.
type ListAssessmentsUseCase struct {
	repo port.AssessmentRepository
}

func NewListAssessmentsUseCase(repo port.AssessmentRepository) *ListAssessmentsUseCase {
	return &ListAssessmentsUseCase{repo: repo}
}

func (uc *ListAssessmentsUseCase) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	ctx, span := tracer.Start(ctx, "ListAssessments")
	defer span.End()

	filter, err := listFilter(req)
	if err != nil {
		return dto.ListAssessmentsResponse{}, failSpan(span, err)
	}

	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return dto.ListAssessmentsResponse{}, failSpan(span, fmt.Errorf("list assessments: %w", err))
	}

	out := dto.ListAssessmentsResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(items)),
		Total:       total,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	for _, a := range items {
		out.Assessments = append(out.Assessments, toAssessmentResponse(a))
	}
	return out, nil
}

func listFilter(req dto.ListAssessmentsRequest) (port.AssessmentFilter, error) {
	f := port.AssessmentFilter{
		TenantID:   req.TenantID,
		CustomerID: req.CustomerID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	switch {
	case f.Limit < 1 || f.Limit > MaxListLimit:
		return f, fmt.Errorf("%w: limit must be between 1 and %d", model.ErrInvalidInput, MaxListLimit)
	case f.Offset < 0:
		return f, fmt.Errorf("%w: offset must not be negative", model.ErrInvalidInput)
	}
	if req.Status != "" {
		status, err := valueobject.ApplicationStatusFromString(req.Status)
		if err != nil {
			return f, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
		}
		f.Status = status
	}
	return f, nil
}
