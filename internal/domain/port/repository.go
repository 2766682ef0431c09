package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// AssessmentFilter narrows a tenant's assessment history. Zero-valued fields
// do not filter.
type AssessmentFilter struct {
	TenantID   string
	CustomerID string
	Status     valueobject.ApplicationStatus
	Limit      int
	Offset     int
}

// AssessmentRepository persists and retrieves risk assessments.
type AssessmentRepository interface {
	Save(ctx context.Context, a model.RiskAssessment) error
	FindByID(ctx context.Context, tenantID, id string) (model.RiskAssessment, error)
	// List returns one page newest first, plus the total number of matches.
	List(ctx context.Context, f AssessmentFilter) ([]model.RiskAssessment, int, error)
	// CountByStatus omits statuses with no assessments.
	CountByStatus(ctx context.Context, tenantID string) (map[valueobject.ApplicationStatus]int, error)
}

// NPACategorySummary aggregates one asset class for a tenant.
type NPACategorySummary struct {
	Category    valueobject.NPACategory
	Count       int
	Outstanding decimal.Decimal
	Provision   decimal.Decimal
}

// NPARecordRepository persists the latest classification of each loan.
type NPARecordRepository interface {
	// Save inserts or updates by (tenant, loan) with optimistic locking on version.
	Save(ctx context.Context, r model.NPARecord) error
	FindByLoanID(ctx context.Context, tenantID, loanID string) (model.NPARecord, error)
	SummarizeByCategory(ctx context.Context, tenantID string) ([]NPACategorySummary, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// AssessmentCache is a read-through cache in front of AssessmentRepository.
// Get returns found=false on a miss.
type AssessmentCache interface {
	Get(ctx context.Context, tenantID, id string) (model.RiskAssessment, bool, error)
	Put(ctx context.Context, a model.RiskAssessment) error
}

// ---------------------------------------------------------------------------
// Metrics port
// ---------------------------------------------------------------------------

// RiskMetrics records decision outcomes.
type RiskMetrics interface {
	RecordAssessment(ctx context.Context, strategy, status string, probability float64, elapsed time.Duration)
	RecordFallback(ctx context.Context, reason string)
	RecordNPAClassification(ctx context.Context, category string)
}
