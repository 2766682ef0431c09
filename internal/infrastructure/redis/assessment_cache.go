package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

var _ port.AssessmentCache = (*AssessmentCache)(nil)

const keyPrefix = "credit-risk:assessment:"

// AssessmentCache stores assessment snapshots as JSON with a fixed TTL.
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAssessmentCache(client *redis.Client, ttl time.Duration) *AssessmentCache {
	return &AssessmentCache{client: client, ttl: ttl}
}

func cacheKey(tenantID, id string) string {
	return keyPrefix + tenantID + ":" + id
}

// Get returns found=false on a miss. A corrupt entry is reported as an error.
func (c *AssessmentCache) Get(ctx context.Context, tenantID, id string) (model.RiskAssessment, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.RiskAssessment{}, false, nil
	}
	if err != nil {
		return model.RiskAssessment{}, false, fmt.Errorf("redis get assessment: %w", err)
	}

	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.RiskAssessment{}, false, fmt.Errorf("decode cached assessment: %w", err)
	}
	a, err := s.restore()
	if err != nil {
		return model.RiskAssessment{}, false, fmt.Errorf("decode cached assessment: %w", err)
	}
	return a, true, nil
}

// Put writes a with the configured TTL.
func (c *AssessmentCache) Put(ctx context.Context, a model.RiskAssessment) error {
	raw, err := json.Marshal(snapshotOf(a))
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(a.TenantID(), a.ID()), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set assessment: %w", err)
	}
	return nil
}

type snapshot struct {
	ID             string               `json:"id"`
	TenantID       string               `json:"tenant_id"`
	CustomerID     string               `json:"customer_id"`
	LoanAmount     float64              `json:"loan_amount"`
	TenureMonths   int                  `json:"tenure_months"`
	InterestRate   float64              `json:"interest_rate"`
	LoanPurpose    string               `json:"loan_purpose"`
	Probability    float64              `json:"risk_probability"`
	CreditScore    float64              `json:"credit_score"`
	RiskLevel      string               `json:"risk_level"`
	Status         string               `json:"status"`
	Recommendation string               `json:"recommendation"`
	ModelUsed      string               `json:"model_used"`
	Contributors   []model.Contribution `json:"contributors"`
	Factors        model.Factors        `json:"factors"`
	ProcessingNS   int64                `json:"processing_time_ns"`
	CreatedAt      time.Time            `json:"created_at"`
}

func snapshotOf(a model.RiskAssessment) snapshot {
	return snapshot{
		ID:             a.ID(),
		TenantID:       a.TenantID(),
		CustomerID:     a.CustomerID(),
		LoanAmount:     a.LoanAmount(),
		TenureMonths:   a.TenureMonths(),
		InterestRate:   a.InterestRate(),
		LoanPurpose:    a.LoanPurpose(),
		Probability:    a.RiskProbability(),
		CreditScore:    a.CreditScore(),
		RiskLevel:      a.RiskLevel().String(),
		Status:         a.Status().String(),
		Recommendation: a.Recommendation(),
		ModelUsed:      a.ModelUsed(),
		Contributors:   a.Contributors(),
		Factors:        a.Factors(),
		ProcessingNS:   a.ProcessingTime().Nanoseconds(),
		CreatedAt:      a.CreatedAt(),
	}
}

func (s snapshot) restore() (model.RiskAssessment, error) {
	level, err := valueobject.RiskLevelFromString(s.RiskLevel)
	if err != nil {
		return model.RiskAssessment{}, err
	}
	status, err := valueobject.ApplicationStatusFromString(s.Status)
	if err != nil {
		return model.RiskAssessment{}, err
	}
	return model.ReconstructRiskAssessment(s.ID, model.AssessmentParams{
		TenantID:       s.TenantID,
		CustomerID:     s.CustomerID,
		LoanAmount:     s.LoanAmount,
		TenureMonths:   s.TenureMonths,
		InterestRate:   s.InterestRate,
		LoanPurpose:    s.LoanPurpose,
		Probability:    s.Probability,
		CreditScore:    s.CreditScore,
		Level:          level,
		Status:         status,
		Recommendation: s.Recommendation,
		ModelUsed:      s.ModelUsed,
		Contributors:   s.Contributors,
		Factors:        s.Factors,
		ProcessingTime: time.Duration(s.ProcessingNS),
	}, s.CreatedAt), nil
}
