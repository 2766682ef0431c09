package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// NPAClassification is the pure result of classifying overdue days and
// provisioning the outstanding amount.
type NPAClassification struct {
	Category  valueobject.NPACategory
	Provision decimal.Decimal
}

// NPARecord tracks the asset classification of one loan.
type NPARecord struct {
	id           string
	tenantID     string
	loanID       string
	overdueDays  int
	outstanding  decimal.Decimal
	category     valueobject.NPACategory
	provision    decimal.Decimal
	version      int
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// NewNPARecord creates the first classification for a loan.
func NewNPARecord(
	tenantID, loanID string,
	overdueDays int,
	outstanding decimal.Decimal,
	c NPAClassification,
	now time.Time,
) (NPARecord, error) {
	if err := validateNPA(tenantID, loanID, overdueDays, outstanding); err != nil {
		return NPARecord{}, err
	}

	r := NPARecord{
		id:          uuid.NewString(),
		tenantID:    tenantID,
		loanID:      loanID,
		overdueDays: overdueDays,
		outstanding: outstanding,
		category:    c.Category,
		provision:   c.Provision,
		version:     1,
		updatedAt:   now,
	}
	r.domainEvents = append(r.domainEvents, event.NewNPAClassified(
		r.id, tenantID, loanID, "", c.Category.String(), overdueDays, c.Provision.StringFixed(2),
	))
	return r, nil
}

// ReconstructNPARecord rebuilds an aggregate from persistence without side-effects.
func ReconstructNPARecord(
	id, tenantID, loanID string,
	overdueDays int,
	outstanding decimal.Decimal,
	category valueobject.NPACategory,
	provision decimal.Decimal,
	version int,
	updatedAt time.Time,
) NPARecord {
	return NPARecord{
		id:          id,
		tenantID:    tenantID,
		loanID:      loanID,
		overdueDays: overdueDays,
		outstanding: outstanding,
		category:    category,
		provision:   provision,
		version:     version,
		updatedAt:   updatedAt,
	}
}

// Reclassify returns a copy with new overdue days, outstanding amount and
// classification. NPAClassified is recorded only when the category changes.
func (r NPARecord) Reclassify(
	overdueDays int,
	outstanding decimal.Decimal,
	c NPAClassification,
	now time.Time,
) (NPARecord, error) {
	if err := validateNPA(r.tenantID, r.loanID, overdueDays, outstanding); err != nil {
		return NPARecord{}, err
	}

	previous := r.category
	r.domainEvents = append([]event.DomainEvent(nil), r.domainEvents...)
	r.overdueDays = overdueDays
	r.outstanding = outstanding
	r.category = c.Category
	r.provision = c.Provision
	r.version++
	r.updatedAt = now

	if !previous.Equal(c.Category) {
		r.domainEvents = append(r.domainEvents, event.NewNPAClassified(
			r.id, r.tenantID, r.loanID, previous.String(), c.Category.String(), overdueDays, c.Provision.StringFixed(2),
		))
	}
	return r, nil
}

func validateNPA(tenantID, loanID string, overdueDays int, outstanding decimal.Decimal) error {
	switch {
	case tenantID == "":
		return invalid("tenant id is required")
	case loanID == "":
		return invalid("loan id is required")
	case overdueDays < 0:
		return invalid("overdue_days must not be negative")
	case outstanding.IsNegative():
		return invalid("outstanding_amount must not be negative")
	}
	return nil
}

func (r NPARecord) ID() string                         { return r.id }
func (r NPARecord) TenantID() string                   { return r.tenantID }
func (r NPARecord) LoanID() string                     { return r.loanID }
func (r NPARecord) OverdueDays() int                   { return r.overdueDays }
func (r NPARecord) OutstandingAmount() decimal.Decimal { return r.outstanding }
func (r NPARecord) Category() valueobject.NPACategory  { return r.category }
func (r NPARecord) ProvisionAmount() decimal.Decimal   { return r.provision }
func (r NPARecord) Version() int                       { return r.version }
func (r NPARecord) UpdatedAt() time.Time               { return r.updatedAt }
func (r NPARecord) DomainEvents() []event.DomainEvent  { return r.domainEvents }

// ClearEvents returns a copy with no pending domain events.
func (r NPARecord) ClearEvents() NPARecord {
	r.domainEvents = nil
	return r
}
