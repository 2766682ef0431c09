package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/credit-risk/internal/domain/port"
)

var tracer = otel.Tracer("github.com/bibbank/credit-risk/internal/application/usecase")

// Clock returns the current time. Use cases default to time.Now in UTC.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// failSpan marks span as failed and returns err unchanged.
func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type noopMetrics struct{}

func (noopMetrics) RecordAssessment(context.Context, string, string, float64, time.Duration) {}
func (noopMetrics) RecordFallback(context.Context, string)                                   {}
func (noopMetrics) RecordNPAClassification(context.Context, string)                          {}

func metricsOrNoop(m port.RiskMetrics) port.RiskMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
