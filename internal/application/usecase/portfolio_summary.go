package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// GetPortfolioSummaryUseCase reports a tenant's decision mix and NPA ratio.
type GetPortfolioSummaryUseCase struct {
	assessments port.AssessmentRepository
	npa         port.NPARecordRepository
}

func NewGetPortfolioSummaryUseCase(assessments port.AssessmentRepository, npa port.NPARecordRepository) *GetPortfolioSummaryUseCase {
	return &GetPortfolioSummaryUseCase{assessments: assessments, npa: npa}
}

func (uc *GetPortfolioSummaryUseCase) Execute(ctx context.Context, req dto.PortfolioSummaryRequest) (dto.PortfolioSummaryResponse, error) {
	ctx, span := tracer.Start(ctx, "GetPortfolioSummary")
	defer span.End()

	counts, err := uc.assessments.CountByStatus(ctx, req.TenantID)
	if err != nil {
		return dto.PortfolioSummaryResponse{}, failSpan(span, fmt.Errorf("count assessments: %w", err))
	}
	summaries, err := uc.npa.SummarizeByCategory(ctx, req.TenantID)
	if err != nil {
		return dto.PortfolioSummaryResponse{}, failSpan(span, fmt.Errorf("summarize npa: %w", err))
	}
	return BuildPortfolioSummary(counts, summaries), nil
}

// BuildPortfolioSummary derives the rates. Both are zero when their
// denominator is zero.
func BuildPortfolioSummary(counts map[valueobject.ApplicationStatus]int, summaries []port.NPACategorySummary) dto.PortfolioSummaryResponse {
	out := dto.PortfolioSummaryResponse{
		Approved:         counts[valueobject.StatusApproved],
		Pending:          counts[valueobject.StatusPending],
		Rejected:         counts[valueobject.StatusRejected],
		TotalOutstanding: decimal.Zero,
		NPAOutstanding:   decimal.Zero,
		TotalProvision:   decimal.Zero,
	}
	for _, n := range counts {
		out.TotalApplications += n
	}
	if out.TotalApplications > 0 {
		out.ApprovalRate = percent(
			decimal.NewFromInt(int64(out.Approved)),
			decimal.NewFromInt(int64(out.TotalApplications)),
		)
	}

	for _, s := range summaries {
		out.TotalLoans += s.Count
		out.TotalOutstanding = out.TotalOutstanding.Add(s.Outstanding)
		out.TotalProvision = out.TotalProvision.Add(s.Provision)
		if s.Category.IsNonPerforming() {
			out.TotalNPA += s.Count
			out.NPAOutstanding = out.NPAOutstanding.Add(s.Outstanding)
		}
	}
	if out.TotalOutstanding.IsPositive() {
		out.NPARatio = percent(out.NPAOutstanding, out.TotalOutstanding)
	}
	return out
}

func percent(part, whole decimal.Decimal) float64 {
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2).InexactFloat64()
}
