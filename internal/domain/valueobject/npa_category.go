package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NPACategory is the regulatory asset classification of a loan by overdue days.
type NPACategory struct {
	value string
}

var (
	NPAStandard    = NPACategory{value: "Standard"}
	NPASubStandard = NPACategory{value: "Sub-Standard"}
	NPADoubtful    = NPACategory{value: "Doubtful"}
	NPALoss        = NPACategory{value: "Loss"}
)

// AllNPACategories lists the categories in increasing severity.
func AllNPACategories() []NPACategory {
	return []NPACategory{NPAStandard, NPASubStandard, NPADoubtful, NPALoss}
}

var provisionRates = map[NPACategory]decimal.Decimal{
	NPAStandard:    decimal.RequireFromString("0.004"),
	NPASubStandard: decimal.RequireFromString("0.15"),
	NPADoubtful:    decimal.RequireFromString("0.40"),
	NPALoss:        decimal.NewFromInt(1),
}

// NPACategoryFromString reconstructs an NPACategory.
func NPACategoryFromString(s string) (NPACategory, error) {
	for _, c := range AllNPACategories() {
		if c.value == s {
			return c, nil
		}
	}
	return NPACategory{}, fmt.Errorf("invalid NPA category: %q", s)
}

// ProvisionRate returns the fraction of outstanding principal to reserve.
// An unset or unknown category uses the Standard rate.
func (c NPACategory) ProvisionRate() decimal.Decimal {
	if rate, ok := provisionRates[c]; ok {
		return rate
	}
	return provisionRates[NPAStandard]
}

// IsNonPerforming is true for every category except Standard.
func (c NPACategory) IsNonPerforming() bool {
	return !c.IsZero() && c != NPAStandard
}

func (c NPACategory) String() string { return c.value }

func (c NPACategory) IsZero() bool { return c.value == "" }

func (c NPACategory) Equal(other NPACategory) bool { return c.value == other.value }
