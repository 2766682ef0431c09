package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
	"github.com/bibbank/credit-risk/pkg/testutil"
)

func storedAssessment(id string) model.RiskAssessment {
	return model.ReconstructRiskAssessment(id, model.AssessmentParams{
		TenantID:    tenantID,
		CustomerID:  testutil.TestCustomerID,
		Probability: 0.2,
		CreditScore: 740,
		Level:       valueobject.RiskLevelLow,
		Status:      valueobject.StatusApproved,
		ModelUsed:   "logreg_v2",
	}, testutil.TestNow)
}

func TestGetAssessment_CacheHit(t *testing.T) {
	repo := &mockAssessmentRepository{}
	cache := &mockCache{entries: map[string]model.RiskAssessment{"a-1": storedAssessment("a-1")}}
	uc := usecase.NewGetAssessmentUseCase(repo, cache, discard)

	resp, err := uc.Execute(context.Background(), dto.GetAssessmentRequest{TenantID: tenantID, AssessmentID: "a-1"})
	require.NoError(t, err)
	assert.Equal(t, "a-1", resp.ApplicationID)
	assert.Zero(t, repo.findCalls)
}

func TestGetAssessment_MissFillsCache(t *testing.T) {
	repo := &mockAssessmentRepository{
		findByIDFunc: func(context.Context, string, string) (model.RiskAssessment, error) {
			return storedAssessment("a-2"), nil
		},
	}
	cache := &mockCache{}
	uc := usecase.NewGetAssessmentUseCase(repo, cache, discard)

	resp, err := uc.Execute(context.Background(), dto.GetAssessmentRequest{TenantID: tenantID, AssessmentID: "a-2"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", resp.Status)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, []model.Contribution{}, resp.TopRiskFactors)
}

func TestGetAssessment_CacheErrorFallsThrough(t *testing.T) {
	repo := &mockAssessmentRepository{
		findByIDFunc: func(context.Context, string, string) (model.RiskAssessment, error) {
			return storedAssessment("a-3"), nil
		},
	}
	uc := usecase.NewGetAssessmentUseCase(repo, &mockCache{getErr: errors.New("timeout")}, discard)

	_, err := uc.Execute(context.Background(), dto.GetAssessmentRequest{TenantID: tenantID, AssessmentID: "a-3"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetAssessment_NotFound(t *testing.T) {
	uc := usecase.NewGetAssessmentUseCase(&mockAssessmentRepository{}, nil, discard)

	_, err := uc.Execute(context.Background(), dto.GetAssessmentRequest{TenantID: tenantID, AssessmentID: "missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = uc.Execute(context.Background(), dto.GetAssessmentRequest{TenantID: tenantID})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
