package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// AssessApplicationRequest carries one loan application to score.
type AssessApplicationRequest struct {
	TenantID          string   `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	CustomerID        string   `json:"customer_id" yaml:"customer_id"`
	LoanAmount        float64  `json:"loan_amount" yaml:"loan_amount"`
	TenureMonths      int      `json:"tenure_months" yaml:"tenure_months"`
	InterestRate      float64  `json:"interest_rate" yaml:"interest_rate"`
	MonthlyIncome     float64  `json:"monthly_income" yaml:"monthly_income"`
	YearsOfExperience float64  `json:"years_of_experience" yaml:"years_of_experience"`
	Age               *float64 `json:"age,omitempty" yaml:"age,omitempty"`
	// DateOfBirth is YYYY-MM-DD and is used only when Age is absent.
	DateOfBirth     string  `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
	LoanPurpose     string  `json:"loan_purpose" yaml:"loan_purpose"`
	EmploymentType  string  `json:"employment_type" yaml:"employment_type"`
	CollateralValue float64 `json:"collateral_value,omitempty" yaml:"collateral_value,omitempty"`
}

// GetAssessmentRequest identifies a stored assessment.
type GetAssessmentRequest struct {
	TenantID     string `json:"tenant_id"`
	AssessmentID string `json:"assessment_id"`
}

// ListAssessmentsRequest pages through a tenant's assessments.
type ListAssessmentsRequest struct {
	TenantID   string `json:"tenant_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// BatchAssessRequest scores several applications for one tenant.
type BatchAssessRequest struct {
	TenantID     string                     `json:"tenant_id"`
	Applications []AssessApplicationRequest `json:"applications"`
}

// QuoteLoanRequest asks for affordability ratios without scoring.
type QuoteLoanRequest struct {
	LoanAmount      float64 `json:"loan_amount" yaml:"loan_amount"`
	TenureMonths    int     `json:"tenure_months" yaml:"tenure_months"`
	InterestRate    float64 `json:"interest_rate" yaml:"interest_rate"`
	MonthlyIncome   float64 `json:"monthly_income" yaml:"monthly_income"`
	CollateralValue float64 `json:"collateral_value,omitempty" yaml:"collateral_value,omitempty"`
}

// ClassifyLoanRequest reports a loan's current delinquency.
type ClassifyLoanRequest struct {
	TenantID          string          `json:"tenant_id"`
	LoanID            string          `json:"loan_id"`
	OverdueDays       int             `json:"overdue_days"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// NPAAnalysisRequest selects the tenant whose portfolio is summarised.
type NPAAnalysisRequest struct {
	TenantID string `json:"tenant_id"`
}

// PortfolioSummaryRequest selects the tenant whose decisions are summarised.
type PortfolioSummaryRequest struct {
	TenantID string `json:"tenant_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AssessmentResponse is the external representation of a risk assessment.
type AssessmentResponse struct {
	ApplicationID    string               `json:"application_id" yaml:"application_id"`
	TenantID         string               `json:"tenant_id" yaml:"tenant_id"`
	CustomerID       string               `json:"customer_id" yaml:"customer_id"`
	RiskProbability  float64              `json:"risk_probability" yaml:"risk_probability"`
	CreditScore      float64              `json:"credit_score" yaml:"credit_score"`
	RiskLevel        string               `json:"risk_level" yaml:"risk_level"`
	Status           string               `json:"status" yaml:"status"`
	Recommendation   string               `json:"recommendation" yaml:"recommendation"`
	ModelUsed        string               `json:"model_used" yaml:"model_used"`
	TopRiskFactors   []model.Contribution `json:"top_risk_factors" yaml:"top_risk_factors"`
	Factors          model.Factors        `json:"factors" yaml:"factors"`
	ProcessingTimeMS float64              `json:"processing_time_ms" yaml:"processing_time_ms"`
	CreatedAt        time.Time            `json:"created_at" yaml:"created_at"`
}

// ListAssessmentsResponse is one page of assessments.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Total       int                  `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// BatchItemResult holds the outcome for the application at Index.
type BatchItemResult struct {
	Index      int                 `json:"index" yaml:"index"`
	Assessment *AssessmentResponse `json:"assessment,omitempty" yaml:"assessment,omitempty"`
	Error      string              `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchAssessResponse lists results in request order.
type BatchAssessResponse struct {
	Results   []BatchItemResult `json:"results" yaml:"results"`
	Succeeded int               `json:"succeeded" yaml:"succeeded"`
	Failed    int               `json:"failed" yaml:"failed"`
}

// QuoteLoanResponse holds the affordability ratios for a prospective loan.
type QuoteLoanResponse struct {
	EstimatedEMI  float64 `json:"estimated_emi" yaml:"estimated_emi"`
	TotalPayable  float64 `json:"total_payable" yaml:"total_payable"`
	TotalInterest float64 `json:"total_interest" yaml:"total_interest"`
	DTI           float64 `json:"debt_to_income_ratio" yaml:"debt_to_income_ratio"`
	LTI           float64 `json:"loan_to_income_ratio" yaml:"loan_to_income_ratio"`
	LTV           float64 `json:"loan_to_value_ratio" yaml:"loan_to_value_ratio"`
}

// NPARecordResponse is the external representation of a loan classification.
type NPARecordResponse struct {
	ID                string          `json:"id,omitempty" yaml:"id,omitempty"`
	LoanID            string          `json:"loan_id" yaml:"loan_id"`
	OverdueDays       int             `json:"overdue_days" yaml:"overdue_days"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount" yaml:"outstanding_amount"`
	Category          string          `json:"category" yaml:"category"`
	ProvisionRate     decimal.Decimal `json:"provision_rate" yaml:"provision_rate"`
	ProvisionAmount   decimal.Decimal `json:"provision_amount" yaml:"provision_amount"`
	NonPerforming     bool            `json:"non_performing" yaml:"non_performing"`
	CategoryChanged   bool            `json:"category_changed" yaml:"category_changed"`
	Version           int             `json:"version,omitempty" yaml:"version,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NPACategoryStats summarises one asset class.
type NPACategoryStats struct {
	Category        string          `json:"category"`
	Count           int             `json:"count"`
	Percentage      float64         `json:"percentage"`
	Outstanding     decimal.Decimal `json:"outstanding_amount"`
	ProvisionAmount decimal.Decimal `json:"provision_amount"`
}

// NPAAnalysisResponse is the portfolio view across all four categories.
type NPAAnalysisResponse struct {
	Categories       []NPACategoryStats `json:"categories"`
	TotalNPA         int                `json:"total_npa"`
	TotalLoans       int                `json:"total_loans"`
	TotalOutstanding decimal.Decimal    `json:"total_outstanding"`
	TotalProvision   decimal.Decimal    `json:"total_provision"`
}

// PortfolioSummaryResponse combines decision counts with the NPA position.
// Rates are percentages rounded to 2 decimals; NPARatio is the share of
// outstanding principal that is non-performing.
type PortfolioSummaryResponse struct {
	TotalApplications int             `json:"total_applications"`
	Approved          int             `json:"approved"`
	Pending           int             `json:"pending"`
	Rejected          int             `json:"rejected"`
	ApprovalRate      float64         `json:"approval_rate"`
	TotalLoans        int             `json:"total_loans"`
	TotalNPA          int             `json:"total_npa"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	NPAOutstanding    decimal.Decimal `json:"npa_outstanding"`
	TotalProvision    decimal.Decimal `json:"total_provision"`
	NPARatio          float64         `json:"npa_ratio"`
}
