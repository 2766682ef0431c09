package ml

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

func countingLoader(calls *atomic.Int64, m *model.LoadedModel, err error) Loader {
	return func(context.Context) (*model.LoadedModel, error) {
		calls.Add(1)
		return m, err
	}
}

func TestModelCache_LoadsOnceUnderConcurrency(t *testing.T) {
	var calls atomic.Int64
	want := model.NewLoadedModel("m1", NewLogisticClassifier(LogisticParams{}), model.DefaultSchema(), nil, nil, true)
	cache := NewModelCache(countingLoader(&calls, want, nil), slog.New(slog.DiscardHandler))
	assert.Equal(t, StatusLoading, cache.Status())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Model(context.Background())
			assert.NoError(t, err)
			assert.Same(t, want, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, StatusModel, cache.Status())
}

func TestModelCache_CachesFailure(t *testing.T) {
	var calls atomic.Int64
	cache := NewModelCache(countingLoader(&calls, nil, errors.New("manifest missing")), slog.New(slog.DiscardHandler))

	for range 3 {
		m, err := cache.Model(context.Background())
		assert.Nil(t, m)
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
	}
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, StatusFallback, cache.Status())
}

func TestModelCache_CancelledLoadIsRetried(t *testing.T) {
	var calls atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := NewModelCache(countingLoader(&calls, nil, context.Canceled), slog.New(slog.DiscardHandler))
	_, err := cache.Model(ctx)
	require.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.Equal(t, StatusLoading, cache.Status())
}

func TestModelCache_NilModel(t *testing.T) {
	var calls atomic.Int64
	cache := NewModelCache(countingLoader(&calls, nil, nil), nil)
	_, err := cache.Model(context.Background())
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.NoError(t, cache.Close())
}
