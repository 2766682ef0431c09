package service

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Sentinels returned when a ratio's denominator is zero or negative. They
// represent the worst case rather than an undefined value.
const (
	DTISentinel = 1.0
	LTISentinel = 10.0
	LTVSentinel = 1.0
)

var (
	// ErrInvalidTenure is returned by EMI for a non-positive tenure.
	ErrInvalidTenure = errors.New("tenure months must be greater than zero")
	// ErrUnrepresentableEMI is returned when the inputs are too large for the
	// installment to be a finite number.
	ErrUnrepresentableEMI = errors.New("installment is not a finite number")
)

// EMI returns the equated monthly installment for principal over tenureMonths
// at annualRatePercent (e.g. 9.5), rounded to 2 decimals. A zero rate is
// simple division with no compounding. The discount form P*r/(1-(1+r)^-n)
// stays finite for very long tenures, where it tends to P*r.
func EMI(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if tenureMonths <= 0 {
		return 0, ErrInvalidTenure
	}
	n := float64(tenureMonths)
	emi := principal / n
	if annualRatePercent != 0 {
		r := annualRatePercent / 1200
		emi = principal * r / (1 - math.Pow(1+r, -n))
	}
	if !isFinite(emi) {
		return 0, ErrUnrepresentableEMI
	}
	return round(emi, 2), nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DTI is emi / monthlyIncome rounded to 4 decimals, or DTISentinel when
// monthlyIncome <= 0.
func DTI(emi, monthlyIncome float64) float64 {
	if monthlyIncome <= 0 {
		return DTISentinel
	}
	return round(emi/monthlyIncome, 4)
}

// LTI is loanAmount / annualIncome rounded to 4 decimals, or LTISentinel when
// annualIncome <= 0.
func LTI(loanAmount, annualIncome float64) float64 {
	if annualIncome <= 0 {
		return LTISentinel
	}
	return round(loanAmount/annualIncome, 4)
}

// LTV is loanAmount / collateralValue rounded to 4 decimals, or LTVSentinel
// when collateralValue <= 0.
func LTV(loanAmount, collateralValue float64) float64 {
	if collateralValue <= 0 {
		return LTVSentinel
	}
	return round(loanAmount/collateralValue, 4)
}

// round rounds half away from zero at the given number of decimal places.
func round(x float64, places int32) float64 {
	if !isFinite(x) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}
