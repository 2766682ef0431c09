package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

// QuoteLoanUseCase computes affordability ratios without running a model.
type QuoteLoanUseCase struct {
	now Clock
}

func NewQuoteLoanUseCase() *QuoteLoanUseCase {
	return &QuoteLoanUseCase{now: utcNow}
}

func (uc *QuoteLoanUseCase) Execute(ctx context.Context, req dto.QuoteLoanRequest) (dto.QuoteLoanResponse, error) {
	_, span := tracer.Start(ctx, "QuoteLoan")
	defer span.End()

	profile, err := model.NewFinancialProfile(model.ProfileInput{
		LoanAmount:         req.LoanAmount,
		TenureMonths:       req.TenureMonths,
		AnnualInterestRate: req.InterestRate,
		MonthlyIncome:      req.MonthlyIncome,
		CollateralValue:    req.CollateralValue,
	}, uc.now())
	if err != nil {
		return dto.QuoteLoanResponse{}, failSpan(span, fmt.Errorf("build profile: %w", err))
	}

	emi, err := service.EMI(profile.LoanAmount(), profile.AnnualInterestRate(), profile.TenureMonths())
	if err != nil {
		return dto.QuoteLoanResponse{}, failSpan(span, fmt.Errorf("%w: %w", model.ErrInvalidInput, err))
	}
	payable := decimal.NewFromFloat(emi).Mul(decimal.NewFromInt(int64(profile.TenureMonths())))
	interest := payable.Sub(decimal.NewFromFloat(profile.LoanAmount()))
	totalPayable := payable.Round(2).InexactFloat64()
	if math.IsInf(totalPayable, 0) {
		return dto.QuoteLoanResponse{}, failSpan(span, fmt.Errorf("%w: total payable is not a finite number", model.ErrInvalidInput))
	}

	return dto.QuoteLoanResponse{
		EstimatedEMI:  emi,
		TotalPayable:  totalPayable,
		TotalInterest: interest.Round(2).InexactFloat64(),
		DTI:           service.DTI(emi, profile.MonthlyIncome()),
		LTI:           service.LTI(profile.LoanAmount(), profile.AnnualIncome()),
		LTV:           service.LTV(profile.LoanAmount(), profile.CollateralValue()),
	}, nil
}
