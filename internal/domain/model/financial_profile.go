package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// daysPerYear converts a date-of-birth delta to fractional years.
	daysPerYear = 365.25
	// DefaultAge is assumed when neither age nor date of birth is supplied.
	DefaultAge = 35.0
)

// ProfileInput is the raw, unvalidated applicant record.
type ProfileInput struct {
	LoanAmount         float64
	TenureMonths       int
	AnnualInterestRate float64 // percent, e.g. 9.5
	MonthlyIncome      float64
	YearsExperience    float64
	// Age is used when set; otherwise it is derived from DateOfBirth.
	Age             *float64
	DateOfBirth     time.Time
	LoanPurpose     string
	EmploymentType  string
	CollateralValue float64
}

// FinancialProfile is the validated, immutable input to one assessment.
type FinancialProfile struct {
	loanAmount      float64
	tenureMonths    int
	annualRate      float64
	monthlyIncome   float64
	yearsExperience float64
	age             float64
	loanPurpose     string
	employmentType  string
	collateralValue float64
}

// NewFinancialProfile validates in and derives age relative to now when needed.
// All failures wrap ErrInvalidInput.
func NewFinancialProfile(in ProfileInput, now time.Time) (FinancialProfile, error) {
	switch {
	case !positive(in.LoanAmount):
		return FinancialProfile{}, invalid("loan_amount must be greater than zero")
	case in.TenureMonths <= 0:
		return FinancialProfile{}, invalid("tenure_months must be greater than zero")
	case !nonNegative(in.AnnualInterestRate):
		return FinancialProfile{}, invalid("interest_rate must not be negative")
	case !nonNegative(in.MonthlyIncome):
		return FinancialProfile{}, invalid("monthly_income must not be negative")
	case !nonNegative(in.YearsExperience):
		return FinancialProfile{}, invalid("years_of_experience must not be negative")
	case !nonNegative(in.CollateralValue):
		return FinancialProfile{}, invalid("collateral_value must not be negative")
	}

	age, err := resolveAge(in, now)
	if err != nil {
		return FinancialProfile{}, err
	}

	return FinancialProfile{
		loanAmount:      in.LoanAmount,
		tenureMonths:    in.TenureMonths,
		annualRate:      in.AnnualInterestRate,
		monthlyIncome:   in.MonthlyIncome,
		yearsExperience: in.YearsExperience,
		age:             age,
		loanPurpose:     strings.TrimSpace(in.LoanPurpose),
		employmentType:  strings.TrimSpace(in.EmploymentType),
		collateralValue: in.CollateralValue,
	}, nil
}

func resolveAge(in ProfileInput, now time.Time) (float64, error) {
	if in.Age != nil {
		if !nonNegative(*in.Age) {
			return 0, invalid("age must not be negative")
		}
		return *in.Age, nil
	}
	if in.DateOfBirth.IsZero() {
		return DefaultAge, nil
	}
	if in.DateOfBirth.After(now) {
		return 0, invalid("date_of_birth is in the future")
	}
	days := math.Floor(now.Sub(in.DateOfBirth).Hours() / 24)
	return math.Round(days/daysPerYear*10) / 10, nil
}

func positive(v float64) bool    { return v > 0 && !math.IsInf(v, 0) }
func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func (p FinancialProfile) LoanAmount() float64         { return p.loanAmount }
func (p FinancialProfile) TenureMonths() int           { return p.tenureMonths }
func (p FinancialProfile) AnnualInterestRate() float64 { return p.annualRate }
func (p FinancialProfile) MonthlyIncome() float64      { return p.monthlyIncome }
func (p FinancialProfile) AnnualIncome() float64       { return p.monthlyIncome * 12 }
func (p FinancialProfile) YearsExperience() float64    { return p.yearsExperience }
func (p FinancialProfile) Age() float64                { return p.age }
func (p FinancialProfile) LoanPurpose() string         { return p.loanPurpose }
func (p FinancialProfile) EmploymentType() string      { return p.employmentType }
func (p FinancialProfile) CollateralValue() float64    { return p.collateralValue }
