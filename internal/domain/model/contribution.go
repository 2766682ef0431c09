package model

// Contribution is a signed estimate of how far one feature pushed the risk
// probability up (positive) or down (negative).
type Contribution struct {
	Feature string  `json:"feature" yaml:"feature"`
	Impact  float64 `json:"impact" yaml:"impact"`
}

// Factors summarises the headline ratios shown alongside a decision.
type Factors struct {
	DTIPercent    float64 `json:"debt_to_income_ratio" yaml:"debt_to_income_ratio"`
	LTI           float64 `json:"loan_to_income_ratio" yaml:"loan_to_income_ratio"`
	EstimatedEMI  float64 `json:"estimated_emi" yaml:"estimated_emi"`
	MonthlyIncome float64 `json:"monthly_income" yaml:"monthly_income"`
}
