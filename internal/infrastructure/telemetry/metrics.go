package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/credit-risk/internal/domain/port"
)

// MeterName scopes every credit-risk instrument.
const MeterName = "github.com/bibbank/credit-risk"

var _ port.RiskMetrics = (*RiskMetrics)(nil)

// RiskMetrics implements port.RiskMetrics on OpenTelemetry instruments.
type RiskMetrics struct {
	assessments metric.Int64Counter
	fallbacks   metric.Int64Counter
	probability metric.Float64Histogram
	latency     metric.Float64Histogram
	npa         metric.Int64Counter
}

// NewRiskMetrics registers the instruments on meter.
func NewRiskMetrics(meter metric.Meter) (*RiskMetrics, error) {
	assessments, err := meter.Int64Counter("credit_risk.assessments.total",
		metric.WithDescription("Risk assessments completed, by strategy and status."))
	if err != nil {
		return nil, fmt.Errorf("assessments counter: %w", err)
	}
	fallbacks, err := meter.Int64Counter("credit_risk.fallback.total",
		metric.WithDescription("Assessments that took a degraded path, by reason."))
	if err != nil {
		return nil, fmt.Errorf("fallback counter: %w", err)
	}
	probability, err := meter.Float64Histogram("credit_risk.probability",
		metric.WithDescription("Distribution of predicted risk probability."),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.45, 0.6, 0.7, 0.8, 0.9))
	if err != nil {
		return nil, fmt.Errorf("probability histogram: %w", err)
	}
	latency, err := meter.Float64Histogram("credit_risk.assessment.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Time spent scoring one application."))
	if err != nil {
		return nil, fmt.Errorf("latency histogram: %w", err)
	}
	npa, err := meter.Int64Counter("credit_risk.npa.classifications.total",
		metric.WithDescription("Loan classifications, by NPA category."))
	if err != nil {
		return nil, fmt.Errorf("npa counter: %w", err)
	}
	return &RiskMetrics{
		assessments: assessments,
		fallbacks:   fallbacks,
		probability: probability,
		latency:     latency,
		npa:         npa,
	}, nil
}

func (m *RiskMetrics) RecordAssessment(ctx context.Context, strategy, status string, probability float64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("status", status),
	)
	m.assessments.Add(ctx, 1, attrs)
	m.probability.Record(ctx, probability, metric.WithAttributes(attribute.String("strategy", strategy)))
	m.latency.Record(ctx, float64(elapsed.Microseconds())/1000)
}

func (m *RiskMetrics) RecordFallback(ctx context.Context, reason string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *RiskMetrics) RecordNPAClassification(ctx context.Context, category string) {
	m.npa.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}
