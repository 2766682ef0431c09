package grpc

// proto.go hand-writes the service descriptor for bib.risk.v1.CreditRiskService.
// Messages are the application DTOs carried by the JSON codec in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-risk/internal/application/dto"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "bib.risk.v1.CreditRiskService"

// CreditRiskServiceServer is the server API for CreditRiskService.
type CreditRiskServiceServer interface {
	AssessApplication(context.Context, *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error)
	GetAssessment(context.Context, *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error)
	ListAssessments(context.Context, *dto.ListAssessmentsRequest) (*dto.ListAssessmentsResponse, error)
	BatchAssess(context.Context, *dto.BatchAssessRequest) (*dto.BatchAssessResponse, error)
	QuoteLoan(context.Context, *dto.QuoteLoanRequest) (*dto.QuoteLoanResponse, error)
	ClassifyLoan(context.Context, *dto.ClassifyLoanRequest) (*dto.NPARecordResponse, error)
	GetNPAAnalysis(context.Context, *dto.NPAAnalysisRequest) (*dto.NPAAnalysisResponse, error)
	GetPortfolioSummary(context.Context, *dto.PortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error)
	mustEmbedUnimplementedCreditRiskServiceServer()
}

// UnimplementedCreditRiskServiceServer provides forward-compatible default implementations.
type UnimplementedCreditRiskServiceServer struct{}

func (UnimplementedCreditRiskServiceServer) AssessApplication(context.Context, *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssessApplication not implemented")
}
func (UnimplementedCreditRiskServiceServer) GetAssessment(context.Context, *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedCreditRiskServiceServer) ListAssessments(context.Context, *dto.ListAssessmentsRequest) (*dto.ListAssessmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAssessments not implemented")
}
func (UnimplementedCreditRiskServiceServer) BatchAssess(context.Context, *dto.BatchAssessRequest) (*dto.BatchAssessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BatchAssess not implemented")
}
func (UnimplementedCreditRiskServiceServer) QuoteLoan(context.Context, *dto.QuoteLoanRequest) (*dto.QuoteLoanResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QuoteLoan not implemented")
}
func (UnimplementedCreditRiskServiceServer) ClassifyLoan(context.Context, *dto.ClassifyLoanRequest) (*dto.NPARecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClassifyLoan not implemented")
}
func (UnimplementedCreditRiskServiceServer) GetNPAAnalysis(context.Context, *dto.NPAAnalysisRequest) (*dto.NPAAnalysisResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNPAAnalysis not implemented")
}
func (UnimplementedCreditRiskServiceServer) GetPortfolioSummary(context.Context, *dto.PortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPortfolioSummary not implemented")
}
func (UnimplementedCreditRiskServiceServer) mustEmbedUnimplementedCreditRiskServiceServer() {}

// RegisterCreditRiskServiceServer registers srv with s.
func RegisterCreditRiskServiceServer(s grpclib.ServiceRegistrar, srv CreditRiskServiceServer) {
	s.RegisterService(&creditRiskServiceDesc, srv)
}

var creditRiskServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CreditRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("AssessApplication", CreditRiskServiceServer.AssessApplication),
		unary("GetAssessment", CreditRiskServiceServer.GetAssessment),
		unary("ListAssessments", CreditRiskServiceServer.ListAssessments),
		unary("BatchAssess", CreditRiskServiceServer.BatchAssess),
		unary("QuoteLoan", CreditRiskServiceServer.QuoteLoan),
		unary("ClassifyLoan", CreditRiskServiceServer.ClassifyLoan),
		unary("GetNPAAnalysis", CreditRiskServiceServer.GetNPAAnalysis),
		unary("GetPortfolioSummary", CreditRiskServiceServer.GetPortfolioSummary),
	},
	Streams: []grpclib.StreamDesc{},
}

// FullMethod returns the gRPC path of one CreditRiskService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor that decodes Req, runs the interceptor
// chain and dispatches to call.
func unary[Req, Resp any](
	method string,
	call func(CreditRiskServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	fullMethod := FullMethod(method)
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CreditRiskServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CreditRiskServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
