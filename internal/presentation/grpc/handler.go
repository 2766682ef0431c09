package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/auth"
)

// Roles allowed per operation group.
var (
	scoringRoles = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleAPIClient}
	readRoles    = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleRiskAnalyst, auth.RoleAuditor, auth.RoleAPIClient}
	quoteRoles   = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleRiskAnalyst, auth.RoleAPIClient}
	npaRoles     = []string{auth.RoleAdmin, auth.RoleRiskAnalyst}
	npaReadRoles = []string{auth.RoleAdmin, auth.RoleRiskAnalyst, auth.RoleAuditor}
)

// Compile-time assertion that Handler implements CreditRiskServiceServer.
var _ CreditRiskServiceServer = (*Handler)(nil)

// Handler exposes the credit-risk use cases over gRPC. The tenant always
// comes from the caller's token; any tenant_id in the request body is
// overwritten.
type Handler struct {
	UnimplementedCreditRiskServiceServer
	assess   *usecase.AssessApplicationUseCase
	get      *usecase.GetAssessmentUseCase
	list     *usecase.ListAssessmentsUseCase
	batch    *usecase.BatchAssessUseCase
	quote    *usecase.QuoteLoanUseCase
	classify *usecase.ClassifyLoanUseCase
	npa      *usecase.GetNPAAnalysisUseCase
	summary  *usecase.GetPortfolioSummaryUseCase
	logger   *slog.Logger
}

// UseCases groups the handler's dependencies.
type UseCases struct {
	Assess      *usecase.AssessApplicationUseCase
	Get         *usecase.GetAssessmentUseCase
	List        *usecase.ListAssessmentsUseCase
	Batch       *usecase.BatchAssessUseCase
	Quote       *usecase.QuoteLoanUseCase
	Classify    *usecase.ClassifyLoanUseCase
	NPAAnalysis *usecase.GetNPAAnalysisUseCase
	Summary     *usecase.GetPortfolioSummaryUseCase
}

// NewHandler creates a new gRPC handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{
		assess:   uc.Assess,
		get:      uc.Get,
		list:     uc.List,
		batch:    uc.Batch,
		quote:    uc.Quote,
		classify: uc.Classify,
		npa:      uc.NPAAnalysis,
		summary:  uc.Summary,
		logger:   logger,
	}
}

func (h *Handler) AssessApplication(ctx context.Context, req *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error) {
	tenantID, err := authorize(ctx, req, scoringRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.assess.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "AssessApplication", err)
	}
	return &resp, nil
}

func (h *Handler) GetAssessment(ctx context.Context, req *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error) {
	tenantID, err := authorize(ctx, req, readRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.get.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetAssessment", err)
	}
	return &resp, nil
}

func (h *Handler) ListAssessments(ctx context.Context, req *dto.ListAssessmentsRequest) (*dto.ListAssessmentsResponse, error) {
	tenantID, err := authorize(ctx, req, readRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.list.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "ListAssessments", err)
	}
	return &resp, nil
}

func (h *Handler) BatchAssess(ctx context.Context, req *dto.BatchAssessRequest) (*dto.BatchAssessResponse, error) {
	tenantID, err := authorize(ctx, req, scoringRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID
	for i := range req.Applications {
		req.Applications[i].TenantID = tenantID
	}

	resp, err := h.batch.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "BatchAssess", err)
	}
	return &resp, nil
}

func (h *Handler) QuoteLoan(ctx context.Context, req *dto.QuoteLoanRequest) (*dto.QuoteLoanResponse, error) {
	if _, err := authorize(ctx, req, quoteRoles); err != nil {
		return nil, err
	}

	resp, err := h.quote.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "QuoteLoan", err)
	}
	return &resp, nil
}

func (h *Handler) ClassifyLoan(ctx context.Context, req *dto.ClassifyLoanRequest) (*dto.NPARecordResponse, error) {
	tenantID, err := authorize(ctx, req, npaRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.classify.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "ClassifyLoan", err)
	}
	return &resp, nil
}

func (h *Handler) GetNPAAnalysis(ctx context.Context, req *dto.NPAAnalysisRequest) (*dto.NPAAnalysisResponse, error) {
	tenantID, err := authorize(ctx, req, npaReadRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.npa.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetNPAAnalysis", err)
	}
	return &resp, nil
}

func (h *Handler) GetPortfolioSummary(ctx context.Context, req *dto.PortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error) {
	tenantID, err := authorize(ctx, req, npaReadRoles)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID

	resp, err := h.summary.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetPortfolioSummary", err)
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// authorize checks roles and returns the caller's tenant.
func authorize[T any](ctx context.Context, req *T, roles []string) (string, error) {
	tenant, err := auth.AuthorizeTenant(ctx, roles...)
	if err != nil {
		return "", err
	}
	if req == nil {
		return "", status.Error(codes.InvalidArgument, "request is required")
	}
	return tenant.String(), nil
}

// toStatus maps domain errors onto gRPC codes. Internal errors are logged
// and returned without detail.
func (h *Handler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrConcurrentUpdate):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
