package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// MaxContributors bounds the ranked explanation stored with an assessment.
const MaxContributors = 5

// ---------------------------------------------------------------------------
// RiskAssessment aggregate root
// ---------------------------------------------------------------------------

// AssessmentParams carries the outcome of one scoring run into NewRiskAssessment.
type AssessmentParams struct {
	TenantID       string
	CustomerID     string
	LoanAmount     float64
	TenureMonths   int
	InterestRate   float64
	LoanPurpose    string
	Probability    float64
	CreditScore    float64
	Level          valueobject.RiskLevel
	Status         valueobject.ApplicationStatus
	Recommendation string
	ModelUsed      string
	Contributors   []Contribution
	Factors        Factors
	ProcessingTime time.Duration
}

// RiskAssessment is the immutable decision envelope for one application.
type RiskAssessment struct {
	id             string
	tenantID       string
	customerID     string
	loanAmount     float64
	tenureMonths   int
	interestRate   float64
	loanPurpose    string
	probability    float64
	creditScore    float64
	level          valueobject.RiskLevel
	status         valueobject.ApplicationStatus
	recommendation string
	modelUsed      string
	contributors   []Contribution
	factors        Factors
	processingTime time.Duration
	createdAt      time.Time
	domainEvents   []event.DomainEvent
}

// NewRiskAssessment validates p and records AssessmentCompleted, plus
// HighRiskDetected when the level is High.
func NewRiskAssessment(p AssessmentParams, now time.Time) (RiskAssessment, error) {
	switch {
	case p.TenantID == "":
		return RiskAssessment{}, invalid("tenant id is required")
	case p.Probability < 0 || p.Probability > 1:
		return RiskAssessment{}, fmt.Errorf("risk probability %v outside [0,1]", p.Probability)
	case p.CreditScore < 300 || p.CreditScore > 850:
		return RiskAssessment{}, fmt.Errorf("credit score %v outside [300,850]", p.CreditScore)
	case len(p.Contributors) > MaxContributors:
		return RiskAssessment{}, fmt.Errorf("%d contributors exceeds limit of %d", len(p.Contributors), MaxContributors)
	case p.Level.IsZero() || p.Status.IsZero():
		return RiskAssessment{}, fmt.Errorf("risk level and status are required")
	}

	a := RiskAssessment{
		id:             uuid.NewString(),
		tenantID:       p.TenantID,
		customerID:     p.CustomerID,
		loanAmount:     p.LoanAmount,
		tenureMonths:   p.TenureMonths,
		interestRate:   p.InterestRate,
		loanPurpose:    p.LoanPurpose,
		probability:    p.Probability,
		creditScore:    p.CreditScore,
		level:          p.Level,
		status:         p.Status,
		recommendation: p.Recommendation,
		modelUsed:      p.ModelUsed,
		contributors:   copyContributions(p.Contributors),
		factors:        p.Factors,
		processingTime: p.ProcessingTime,
		createdAt:      now,
	}

	a.domainEvents = append(a.domainEvents, event.NewAssessmentCompleted(
		a.id, a.tenantID, a.customerID, a.probability, a.creditScore,
		a.level.String(), a.status.String(), a.modelUsed,
	))
	if a.level.Equal(valueobject.RiskLevelHigh) {
		a.domainEvents = append(a.domainEvents, event.NewHighRiskDetected(
			a.id, a.tenantID, a.customerID, a.probability, a.recommendation,
		))
	}
	return a, nil
}

// ReconstructRiskAssessment rebuilds an aggregate from persistence without side-effects.
func ReconstructRiskAssessment(id string, p AssessmentParams, createdAt time.Time) RiskAssessment {
	return RiskAssessment{
		id:             id,
		tenantID:       p.TenantID,
		customerID:     p.CustomerID,
		loanAmount:     p.LoanAmount,
		tenureMonths:   p.TenureMonths,
		interestRate:   p.InterestRate,
		loanPurpose:    p.LoanPurpose,
		probability:    p.Probability,
		creditScore:    p.CreditScore,
		level:          p.Level,
		status:         p.Status,
		recommendation: p.Recommendation,
		modelUsed:      p.ModelUsed,
		contributors:   copyContributions(p.Contributors),
		factors:        p.Factors,
		processingTime: p.ProcessingTime,
		createdAt:      createdAt,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a RiskAssessment) ID() string                            { return a.id }
func (a RiskAssessment) TenantID() string                      { return a.tenantID }
func (a RiskAssessment) CustomerID() string                    { return a.customerID }
func (a RiskAssessment) LoanAmount() float64                   { return a.loanAmount }
func (a RiskAssessment) TenureMonths() int                     { return a.tenureMonths }
func (a RiskAssessment) InterestRate() float64                 { return a.interestRate }
func (a RiskAssessment) LoanPurpose() string                   { return a.loanPurpose }
func (a RiskAssessment) RiskProbability() float64              { return a.probability }
func (a RiskAssessment) CreditScore() float64                  { return a.creditScore }
func (a RiskAssessment) RiskLevel() valueobject.RiskLevel      { return a.level }
func (a RiskAssessment) Status() valueobject.ApplicationStatus { return a.status }
func (a RiskAssessment) Recommendation() string                { return a.recommendation }
func (a RiskAssessment) ModelUsed() string                     { return a.modelUsed }
func (a RiskAssessment) Contributors() []Contribution          { return copyContributions(a.contributors) }
func (a RiskAssessment) Factors() Factors                      { return a.factors }
func (a RiskAssessment) ProcessingTime() time.Duration         { return a.processingTime }
func (a RiskAssessment) CreatedAt() time.Time                  { return a.createdAt }
func (a RiskAssessment) DomainEvents() []event.DomainEvent     { return a.domainEvents }

// ClearEvents returns a copy with no pending domain events.
func (a RiskAssessment) ClearEvents() RiskAssessment {
	a.domainEvents = nil
	return a
}

func copyContributions(src []Contribution) []Contribution {
	if src == nil {
		return nil
	}
	dst := make([]Contribution, len(src))
	copy(dst, src)
	return dst
}
