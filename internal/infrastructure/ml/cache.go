package ml

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// Model status values reported by ModelCache.Status.
const (
	StatusLoading  = "loading"
	StatusModel    = "model"
	StatusFallback = "fallback"
)

type loadResult struct {
	model *model.LoadedModel
	err   error
}

// ModelCache loads a model once, on first use, and serves it to every caller
// for the life of the process. A failed load is remembered too: later calls
// get the same ErrModelUnavailable without retrying.
type ModelCache struct {
	load   Loader
	logger *slog.Logger

	mu     sync.Mutex
	result atomic.Pointer[loadResult]
}

// NewModelCache creates a cache around load.
func NewModelCache(load Loader, logger *slog.Logger) *ModelCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelCache{load: load, logger: logger}
}

// Model returns the loaded model, loading it on the first call. Concurrent
// first callers block until the single load finishes.
func (c *ModelCache) Model(ctx context.Context) (*model.LoadedModel, error) {
	if r := c.result.Load(); r != nil {
		return r.model, r.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.result.Load(); r != nil {
		return r.model, r.err
	}

	m, err := c.load(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrModelUnavailable, ctx.Err())
	}
	r := &loadResult{model: m, err: err}
	if err != nil {
		r.model = nil
		r.err = fmt.Errorf("%w: %w", model.ErrModelUnavailable, err)
		c.logger.WarnContext(ctx, "credit risk model unavailable, rule-based fallback in effect", "error", err)
	} else if m == nil {
		r.err = fmt.Errorf("%w: loader returned no model", model.ErrModelUnavailable)
	} else {
		c.logger.InfoContext(ctx, "credit risk model loaded",
			"model_id", m.ID(),
			"columns", m.Schema().Width(),
			"attribution", m.SupportsAttribution(),
		)
	}
	c.result.Store(r)
	return r.model, r.err
}

// Warm triggers the load without waiting for a request.
func (c *ModelCache) Warm(ctx context.Context) {
	_, _ = c.Model(ctx)
}

// Status reports whether scoring currently uses the model or the fallback.
func (c *ModelCache) Status() string {
	r := c.result.Load()
	switch {
	case r == nil:
		return StatusLoading
	case r.err != nil:
		return StatusFallback
	default:
		return StatusModel
	}
}

// Close releases the classifier if it holds native resources.
func (c *ModelCache) Close() error {
	r := c.result.Load()
	if r == nil || r.model == nil {
		return nil
	}
	if closer, ok := r.model.Classifier().(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
