package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// Overdue-day boundaries. Upper bounds are inclusive.
const (
	subStandardFromDays = 90
	subStandardToDays   = 180
	doubtfulToDays      = 365
)

// ClassifyNPA maps overdue days to a category: under 90 is Standard, 90-180
// Sub-Standard, 181-365 Doubtful, anything later Loss.
func ClassifyNPA(overdueDays int) valueobject.NPACategory {
	switch {
	case overdueDays < subStandardFromDays:
		return valueobject.NPAStandard
	case overdueDays <= subStandardToDays:
		return valueobject.NPASubStandard
	case overdueDays <= doubtfulToDays:
		return valueobject.NPADoubtful
	default:
		return valueobject.NPALoss
	}
}

// Provision is outstanding times the category rate, rounded to 2 decimals.
func Provision(outstanding decimal.Decimal, category valueobject.NPACategory) decimal.Decimal {
	return outstanding.Mul(category.ProvisionRate()).Round(2)
}

// ClassifyLoan combines ClassifyNPA and Provision.
func ClassifyLoan(overdueDays int, outstanding decimal.Decimal) model.NPAClassification {
	category := ClassifyNPA(overdueDays)
	return model.NPAClassification{
		Category:  category,
		Provision: Provision(outstanding, category),
	}
}
