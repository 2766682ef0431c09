package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newProfile(t *testing.T, mutate func(*model.ProfileInput)) model.FinancialProfile {
	t.Helper()
	in := model.ProfileInput{
		LoanAmount:         2_000_000,
		TenureMonths:       36,
		AnnualInterestRate: 9.5,
		MonthlyIncome:      75_000,
		YearsExperience:    5,
		Age:                ptr(30.0),
		LoanPurpose:        "Home Purchase",
		EmploymentType:     "Salaried",
	}
	if mutate != nil {
		mutate(&in)
	}
	p, err := model.NewFinancialProfile(in, testNow)
	require.NoError(t, err)
	return p
}
