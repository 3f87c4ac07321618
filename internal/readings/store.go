// Package readings contains the domain services built on the AQI engine:
// recording new readings (compute-then-freeze, then persist), aggregating
// stored readings into monthly trend series and yearly summaries, and
// assembling the data shape consumed by report renderers.
package readings

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"aqitrack/internal/types"
)

// ReadingStore is the durable append-only log of dated readings the services
// depend on. The date is the natural key; Save must upsert (last write wins).
// GetRange may return readings in any order — the aggregator re-sorts.
// Implementations may fail outright; no retries happen at this layer.
type ReadingStore interface {
	Save(ctx context.Context, rd *types.Reading) error
	GetRange(ctx context.Context, start, end time.Time) ([]types.Reading, error)
	GetByDate(ctx context.Context, date time.Time) (*types.Reading, error)
	ListAll(ctx context.Context) ([]types.Reading, error)
	Delete(ctx context.Context, date time.Time) error
}

// GuardedStore wraps a ReadingStore with a circuit breaker so a flapping
// storage backend sheds load fast instead of queueing slow failures. The
// breaker opens after a run of consecutive failures and half-opens after a
// cooldown. Not-found results are domain answers, not backend faults, and do
// not count against the breaker.
type GuardedStore struct {
	inner   ReadingStore
	breaker *gobreaker.CircuitBreaker[any]
}

// NewGuardedStore wraps the given store with a named circuit breaker.
func NewGuardedStore(inner ReadingStore, name string) *GuardedStore {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var appErr *types.AppError
			if errors.As(err, &appErr) && appErr.Code == types.ErrCodeNotFoundReading {
				return true
			}
			return false
		},
	})

	return &GuardedStore{inner: inner, breaker: cb}
}

// Save forwards to the inner store through the breaker.
func (g *GuardedStore) Save(ctx context.Context, rd *types.Reading) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Save(ctx, rd)
	})
	return mapBreakerErr(err)
}

// GetRange forwards to the inner store through the breaker.
func (g *GuardedStore) GetRange(ctx context.Context, start, end time.Time) ([]types.Reading, error) {
	out, err := g.breaker.Execute(func() (any, error) {
		return g.inner.GetRange(ctx, start, end)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	rds, _ := out.([]types.Reading)
	return rds, nil
}

// GetByDate forwards to the inner store through the breaker.
func (g *GuardedStore) GetByDate(ctx context.Context, date time.Time) (*types.Reading, error) {
	out, err := g.breaker.Execute(func() (any, error) {
		return g.inner.GetByDate(ctx, date)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	rd, _ := out.(*types.Reading)
	return rd, nil
}

// ListAll forwards to the inner store through the breaker.
func (g *GuardedStore) ListAll(ctx context.Context) ([]types.Reading, error) {
	out, err := g.breaker.Execute(func() (any, error) {
		return g.inner.ListAll(ctx)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	rds, _ := out.([]types.Reading)
	return rds, nil
}

// Delete forwards to the inner store through the breaker.
func (g *GuardedStore) Delete(ctx context.Context, date time.Time) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.inner.Delete(ctx, date)
	})
	return mapBreakerErr(err)
}

// mapBreakerErr translates breaker-open rejections into the persistence error
// taxonomy so callers see a single failure surface for the store.
func mapBreakerErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(types.ErrCodePersistenceRead,
			"reading store circuit open", err)
	}
	return err
}
