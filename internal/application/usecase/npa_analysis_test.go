package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

func TestGetNPAAnalysis(t *testing.T) {
	repo := &mockNPARepository{summaries: []port.NPACategorySummary{
		{Category: valueobject.NPALoss, Count: 1, Outstanding: decimal.NewFromInt(50_000), Provision: decimal.NewFromInt(50_000)},
		{Category: valueobject.NPAStandard, Count: 4, Outstanding: decimal.NewFromInt(400_000), Provision: decimal.NewFromInt(1_600)},
		{Category: valueobject.NPASubStandard, Count: 1, Outstanding: decimal.NewFromInt(100_000), Provision: decimal.NewFromInt(15_000)},
	}}
	uc := usecase.NewGetNPAAnalysisUseCase(repo)

	resp, err := uc.Execute(context.Background(), dto.NPAAnalysisRequest{TenantID: tenantID})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.TotalLoans)
	assert.Equal(t, 2, resp.TotalNPA)
	assert.True(t, resp.TotalProvision.Equal(decimal.NewFromInt(66_600)))

	require.Len(t, resp.Categories, 4)
	names := []string{}
	for _, c := range resp.Categories {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"Standard", "Sub-Standard", "Doubtful", "Loss"}, names)
	assert.Equal(t, 66.67, resp.Categories[0].Percentage)
	assert.Equal(t, 16.67, resp.Categories[1].Percentage)
	assert.Equal(t, 0, resp.Categories[2].Count)
	assert.Equal(t, 0.0, resp.Categories[2].Percentage)
}

func TestBuildNPAAnalysis_Empty(t *testing.T) {
	resp := usecase.BuildNPAAnalysis(nil)
	assert.Zero(t, resp.TotalLoans)
	assert.Len(t, resp.Categories, 4)
	for _, c := range resp.Categories {
		assert.Zero(t, c.Percentage)
	}
}
