package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
)

// MaxBatchSize bounds a single BatchAssess call.
const MaxBatchSize = 500

// BatchAssessUseCase scores many applications concurrently. A failing item
// is reported in its slot and does not fail the batch.
type BatchAssessUseCase struct {
	single      *AssessApplicationUseCase
	concurrency int
	logger      *slog.Logger
}

func NewBatchAssessUseCase(single *AssessApplicationUseCase, concurrency int, logger *slog.Logger) *BatchAssessUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchAssessUseCase{single: single, concurrency: concurrency, logger: logger}
}

// Execute returns one result per application, in request order.
func (uc *BatchAssessUseCase) Execute(ctx context.Context, req dto.BatchAssessRequest) (dto.BatchAssessResponse, error) {
	ctx, span := tracer.Start(ctx, "BatchAssess")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(req.Applications)))

	switch {
	case len(req.Applications) == 0:
		return dto.BatchAssessResponse{}, failSpan(span, fmt.Errorf("%w: batch is empty", model.ErrInvalidInput))
	case len(req.Applications) > MaxBatchSize:
		return dto.BatchAssessResponse{}, failSpan(span, fmt.Errorf("%w: batch of %d exceeds limit of %d", model.ErrInvalidInput, len(req.Applications), MaxBatchSize))
	}

	results := make([]dto.BatchItemResult, len(req.Applications))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, app := range req.Applications {
		if app.TenantID == "" {
			app.TenantID = req.TenantID
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := uc.single.assess(gctx, app)
			if err != nil {
				results[i] = dto.BatchItemResult{Index: i, Error: err.Error()}
				return nil
			}
			results[i] = dto.BatchItemResult{Index: i, Assessment: &resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.BatchAssessResponse{}, failSpan(span, fmt.Errorf("batch assess: %w", err))
	}

	out := dto.BatchAssessResponse{Results: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	uc.logger.InfoContext(ctx, "batch assessed",
		"tenant_id", req.TenantID,
		"succeeded", out.Succeeded,
		"failed", out.Failed,
	)
	return out, nil
}
