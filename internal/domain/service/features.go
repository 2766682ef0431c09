package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// Risk-flag thresholds.
const (
	highDTIAbove          = 0.40
	highLTIAbove          = 5.0
	highInterestAbove     = 12.0
	youngBorrowerBelow    = 25.0
	lowExperienceBelowYrs = 2.0
)

// DeriveFeatures computes the 22 core features of a validated profile.
func DeriveFeatures(p model.FinancialProfile) (model.CoreFeatures, error) {
	emi, err := EMI(p.LoanAmount(), p.AnnualInterestRate(), p.TenureMonths())
	if err != nil {
		return model.CoreFeatures{}, fmt.Errorf("%w: estimate emi: %w", model.ErrInvalidInput, err)
	}

	tenure := float64(p.TenureMonths())
	income := p.MonthlyIncome()
	annual := p.AnnualIncome()
	dti := DTI(emi, income)
	lti := LTI(p.LoanAmount(), annual)
	totalInterest := emi*tenure - p.LoanAmount()

	incomePerYearExp := income
	if p.YearsExperience() > 0 {
		incomePerYearExp = income / p.YearsExperience()
	}

	core := model.CoreFeatures{
		LoanAmount:          p.LoanAmount(),
		LoanTenureMonths:    tenure,
		InterestRate:        p.AnnualInterestRate(),
		MonthlyIncome:       income,
		AnnualIncome:        annual,
		YearsOfExperience:   p.YearsExperience(),
		Age:                 p.Age(),
		EstimatedEMI:        emi,
		DebtToIncomeRatio:   dti,
		LoanToIncomeRatio:   lti,
		EMIToIncomeRatio:    dti,
		LoanPerMonth:        p.LoanAmount() / tenure,
		TotalInterest:       totalInterest,
		InterestToPrincipal: totalInterest / p.LoanAmount(),
		IncomePerYearExp:    incomePerYearExp,
		LogIncome:           math.Log1p(income),
		LogLoanAmount:       math.Log1p(p.LoanAmount()),
		HighDTIFlag:         flag(dti > highDTIAbove),
		HighLTIFlag:         flag(lti > highLTIAbove),
		HighInterestFlag:    flag(p.AnnualInterestRate() > highInterestAbove),
		YoungBorrowerFlag:   flag(p.Age() < youngBorrowerBelow),
		LowExperienceFlag:   flag(p.YearsExperience() < lowExperienceBelowYrs),
	}
	for i, v := range core.Values() {
		if !isFinite(v) {
			return model.CoreFeatures{}, fmt.Errorf("%w: %s is not a finite number", model.ErrInvalidInput, model.CoreColumns[i])
		}
	}
	return core, nil
}

// BuildFeatureVector lays out core features followed by the schema's one-hot
// columns. A purpose or employment type with no matching column yields all
// zeros in that block, so the vector width never depends on the input.
func BuildFeatureVector(core model.CoreFeatures, purpose, employmentType string, schema model.FeatureSchema) (model.FeatureVector, error) {
	values := make([]float64, schema.Width())
	coreValues := core.Values()
	copy(values, coreValues[:])

	for i := model.NumCoreFeatures; i < schema.Width(); i++ {
		col := schema.Column(i)
		switch {
		case strings.HasPrefix(col, model.PurposePrefix):
			values[i] = flag(col[len(model.PurposePrefix):] == purpose)
		case strings.HasPrefix(col, model.EmploymentTypePrefix):
			values[i] = flag(col[len(model.EmploymentTypePrefix):] == employmentType)
		}
	}

	return model.NewFeatureVector(schema, values)
}

// FeaturesFor is DeriveFeatures followed by BuildFeatureVector.
func FeaturesFor(p model.FinancialProfile, schema model.FeatureSchema) (model.FeatureVector, model.CoreFeatures, error) {
	core, err := DeriveFeatures(p)
	if err != nil {
		return model.FeatureVector{}, model.CoreFeatures{}, err
	}
	vec, err := BuildFeatureVector(core, p.LoanPurpose(), p.EmploymentType(), schema)
	if err != nil {
		return model.FeatureVector{}, model.CoreFeatures{}, err
	}
	return vec, core, nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
