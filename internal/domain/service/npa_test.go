package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

func TestClassifyNPA_Boundaries(t *testing.T) {
	tests := []struct {
		days int
		want valueobject.NPACategory
	}{
		{0, valueobject.NPAStandard},
		{89, valueobject.NPAStandard},
		{90, valueobject.NPASubStandard},
		{180, valueobject.NPASubStandard},
		{181, valueobject.NPADoubtful},
		{365, valueobject.NPADoubtful},
		{366, valueobject.NPALoss},
		{5000, valueobject.NPALoss},
	}

	for _, tt := range tests {
		got := service.ClassifyNPA(tt.days)
		assert.True(t, tt.want.Equal(got), "days=%d got %s want %s", tt.days, got, tt.want)
	}
}

func TestProvision_ExactRates(t *testing.T) {
	outstanding := decimal.NewFromInt(1_000_000)

	tests := []struct {
		category valueobject.NPACategory
		want     string
	}{
		{valueobject.NPAStandard, "4000"},
		{valueobject.NPASubStandard, "150000"},
		{valueobject.NPADoubtful, "400000"},
		{valueobject.NPALoss, "1000000"},
		{valueobject.NPACategory{}, "4000"},
	}

	for _, tt := range tests {
		got := service.Provision(outstanding, tt.category)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s: got %s", tt.category, got)
	}
}

func TestProvision_RoundsToCents(t *testing.T) {
	got := service.Provision(decimal.RequireFromString("12345.67"), valueobject.NPAStandard)
	assert.Equal(t, "49.38", got.StringFixed(2))
}

func TestClassifyLoan(t *testing.T) {
	c := service.ClassifyLoan(200, decimal.NewFromInt(250000))
	assert.Equal(t, valueobject.NPADoubtful, c.Category)
	assert.Equal(t, "100000.00", c.Provision.StringFixed(2))
}
