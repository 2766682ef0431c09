package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// GetNPAAnalysisUseCase summarises a tenant's portfolio by asset class.
type GetNPAAnalysisUseCase struct {
	repo port.NPARecordRepository
}

func NewGetNPAAnalysisUseCase(repo port.NPARecordRepository) *GetNPAAnalysisUseCase {
	return &GetNPAAnalysisUseCase{repo: repo}
}

// Execute always returns all four categories in severity order.
func (uc *GetNPAAnalysisUseCase) Execute(ctx context.Context, req dto.NPAAnalysisRequest) (dto.NPAAnalysisResponse, error) {
	ctx, span := tracer.Start(ctx, "GetNPAAnalysis")
	defer span.End()

	summaries, err := uc.repo.SummarizeByCategory(ctx, req.TenantID)
	if err != nil {
		return dto.NPAAnalysisResponse{}, failSpan(span, fmt.Errorf("summarize npa: %w", err))
	}
	return BuildNPAAnalysis(summaries), nil
}

// BuildNPAAnalysis fills in missing categories and derives percentages of the
// total loan count, rounded to 2 decimals.
func BuildNPAAnalysis(summaries []port.NPACategorySummary) dto.NPAAnalysisResponse {
	byCategory := make(map[valueobject.NPACategory]port.NPACategorySummary, len(summaries))
	out := dto.NPAAnalysisResponse{
		TotalOutstanding: decimal.Zero,
		TotalProvision:   decimal.Zero,
	}
	for _, s := range summaries {
		byCategory[s.Category] = s
		out.TotalLoans += s.Count
		out.TotalOutstanding = out.TotalOutstanding.Add(s.Outstanding)
		out.TotalProvision = out.TotalProvision.Add(s.Provision)
		if s.Category.IsNonPerforming() {
			out.TotalNPA += s.Count
		}
	}

	for _, cat := range valueobject.AllNPACategories() {
		s := byCategory[cat]
		stats := dto.NPACategoryStats{
			Category:        cat.String(),
			Count:           s.Count,
			Outstanding:     s.Outstanding,
			ProvisionAmount: s.Provision,
		}
		if out.TotalLoans > 0 {
			stats.Percentage = decimal.NewFromInt(int64(s.Count) * 100).
				Div(decimal.NewFromInt(int64(out.TotalLoans))).
				Round(2).InexactFloat64()
		}
		out.Categories = append(out.Categories, stats)
	}
	return out
}
