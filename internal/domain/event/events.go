package event

import (
	"github.com/bibbank/credit-risk/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event types published to the risk topic.
const (
	TypeAssessmentCompleted = "risk.assessment.completed"
	TypeHighRiskDetected    = "risk.assessment.high_risk"
	TypeNPAClassified       = "risk.npa.classified"
)

// ---------------------------------------------------------------------------
// Assessment events
// ---------------------------------------------------------------------------

// AssessmentCompleted is raised once per scored application.
type AssessmentCompleted struct {
	events.BaseEvent
	CustomerID      string  `json:"customer_id"`
	RiskProbability float64 `json:"risk_probability"`
	CreditScore     float64 `json:"credit_score"`
	RiskLevel       string  `json:"risk_level"`
	Status          string  `json:"status"`
	ModelUsed       string  `json:"model_used"`
}

func NewAssessmentCompleted(
	assessmentID, tenantID, customerID string,
	probability, score float64,
	level, status, modelUsed string,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:       events.NewBaseEvent(TypeAssessmentCompleted, assessmentID, "RiskAssessment", tenantID),
		CustomerID:      customerID,
		RiskProbability: probability,
		CreditScore:     score,
		RiskLevel:       level,
		Status:          status,
		ModelUsed:       modelUsed,
	}
}

// HighRiskDetected is raised in addition to AssessmentCompleted for High-level results.
type HighRiskDetected struct {
	events.BaseEvent
	CustomerID      string  `json:"customer_id"`
	RiskProbability float64 `json:"risk_probability"`
	Recommendation  string  `json:"recommendation"`
}

func NewHighRiskDetected(assessmentID, tenantID, customerID string, probability float64, recommendation string) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:       events.NewBaseEvent(TypeHighRiskDetected, assessmentID, "RiskAssessment", tenantID),
		CustomerID:      customerID,
		RiskProbability: probability,
		Recommendation:  recommendation,
	}
}

// ---------------------------------------------------------------------------
// NPA events
// ---------------------------------------------------------------------------

// NPAClassified is raised when a loan enters a new NPA category.
type NPAClassified struct {
	events.BaseEvent
	LoanID           string `json:"loan_id"`
	PreviousCategory string `json:"previous_category,omitempty"`
	Category         string `json:"category"`
	OverdueDays      int    `json:"overdue_days"`
	ProvisionAmount  string `json:"provision_amount"`
}

func NewNPAClassified(recordID, tenantID, loanID, previous, category string, overdueDays int, provision string) NPAClassified {
	return NPAClassified{
		BaseEvent:        events.NewBaseEvent(TypeNPAClassified, recordID, "NPARecord", tenantID),
		LoanID:           loanID,
		PreviousCategory: previous,
		Category:         category,
		OverdueDays:      overdueDays,
		ProvisionAmount:  provision,
	}
}
