package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

func TestGetPortfolioSummary(t *testing.T) {
	var gotTenant string
	assessments := &mockAssessmentRepository{
		countFunc: func(_ context.Context, tenant string) (map[valueobject.ApplicationStatus]int, error) {
			gotTenant = tenant
			return map[valueobject.ApplicationStatus]int{
				valueobject.StatusApproved: 7,
				valueobject.StatusPending:  2,
				valueobject.StatusRejected: 3,
			}, nil
		},
	}
	npa := &mockNPARepository{summaries: []port.NPACategorySummary{
		{Category: valueobject.NPAStandard, Count: 4, Outstanding: decimal.NewFromInt(400_000), Provision: decimal.NewFromInt(1_600)},
		{Category: valueobject.NPASubStandard, Count: 1, Outstanding: decimal.NewFromInt(100_000), Provision: decimal.NewFromInt(15_000)},
		{Category: valueobject.NPALoss, Count: 1, Outstanding: decimal.NewFromInt(50_000), Provision: decimal.NewFromInt(50_000)},
	}}
	uc := usecase.NewGetPortfolioSummaryUseCase(assessments, npa)

	resp, err := uc.Execute(context.Background(), dto.PortfolioSummaryRequest{TenantID: tenantID})
	require.NoError(t, err)

	assert.Equal(t, tenantID, gotTenant)
	assert.Equal(t, 12, resp.TotalApplications)
	assert.Equal(t, 7, resp.Approved)
	assert.Equal(t, 2, resp.Pending)
	assert.Equal(t, 3, resp.Rejected)
	assert.Equal(t, 58.33, resp.ApprovalRate)

	assert.Equal(t, 6, resp.TotalLoans)
	assert.Equal(t, 2, resp.TotalNPA)
	assert.True(t, resp.TotalOutstanding.Equal(decimal.NewFromInt(550_000)))
	assert.True(t, resp.NPAOutstanding.Equal(decimal.NewFromInt(150_000)))
	assert.True(t, resp.TotalProvision.Equal(decimal.NewFromInt(66_600)))
	assert.Equal(t, 27.27, resp.NPARatio)
}

func TestBuildPortfolioSummary_Empty(t *testing.T) {
	resp := usecase.BuildPortfolioSummary(map[valueobject.ApplicationStatus]int{}, nil)
	assert.Zero(t, resp.TotalApplications)
	assert.Zero(t, resp.ApprovalRate)
	assert.Zero(t, resp.NPARatio)
	assert.True(t, resp.TotalOutstanding.IsZero())
}

func TestGetPortfolioSummary_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	assessments := &mockAssessmentRepository{
		countFunc: func(context.Context, string) (map[valueobject.ApplicationStatus]int, error) {
			return nil, boom
		},
	}
	uc := usecase.NewGetPortfolioSummaryUseCase(assessments, &mockNPARepository{})

	_, err := uc.Execute(context.Background(), dto.PortfolioSummaryRequest{TenantID: tenantID})
	require.ErrorIs(t, err, boom)
}
