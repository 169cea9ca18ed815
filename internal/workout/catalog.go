package workout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Catalog provides the exercises plans are generated from. List may fail or return an empty catalog.
type Catalog interface {
	List(ctx context.Context) ([]Exercise, error)
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc func(ctx context.Context) ([]Exercise, error)

// List calls f.
func (f CatalogFunc) List(ctx context.Context) ([]Exercise, error) {
	return f(ctx)
}

// catalogLoadTimeout bounds a shared load, which outlives the request that started it.
const catalogLoadTimeout = 10 * time.Second

// CachedCatalog reuses a loaded catalog for a fixed time to live.
//
// Concurrent loads are collapsed into one that is detached from any single caller's cancellation. When a reload
// fails the previously loaded catalog is served.
type CachedCatalog struct {
	source      Catalog
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
	group       singleflight.Group

	mu       sync.RWMutex
	cached   []Exercise
	loadedAt time.Time
}

// NewCachedCatalog wraps source. A non-positive ttl disables caching but keeps the stale fallback.
func NewCachedCatalog(source Catalog, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{
		source:      source,
		ttl:         ttl,
		loadTimeout: catalogLoadTimeout,
		now:         time.Now,
		logger:      logger,
		group:       singleflight.Group{},
		mu:          sync.RWMutex{},
		cached:      nil,
		loadedAt:    time.Time{},
	}
}

// List returns a copy of the cached catalog, reloading it when expired.
//
// A caller whose ctx is done stops waiting for the shared load without affecting the other callers.
func (c *CachedCatalog) List(ctx context.Context) ([]Exercise, error) {
	c.mu.RLock()
	cached, loadedAt := c.cached, c.loadedAt
	c.mu.RUnlock()

	if cached != nil && c.now().Sub(loadedAt) < c.ttl {
		return cloneExercises(cached), nil
	}

	ch := c.group.DoChan("catalog", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		exercises, err := c.source.List(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		c.mu.Lock()
		c.cached = exercises
		c.loadedAt = c.now()
		c.mu.Unlock()
		c.logger.LogAttrs(loadCtx, slog.LevelDebug, "loaded catalog", slog.Int("exercises", len(exercises)))
		return exercises, nil
	})

	var err error
	select {
	case res := <-ch:
		if res.Err == nil {
			exercises, _ := res.Val.([]Exercise)
			return cloneExercises(exercises), nil
		}
		err = res.Err
	case <-ctx.Done():
		err = fmt.Errorf("wait for catalog: %w", ctx.Err())
	}
	if cached != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "serving stale catalog",
			slog.Int("exercises", len(cached)), slog.Any("error", err))
		return cloneExercises(cached), nil
	}
	return nil, err
}

func cloneExercises(exercises []Exercise) []Exercise {
	cloned := make([]Exercise, len(exercises))
	for i, e := range exercises {
		e.Tags = slices.Clone(e.Tags)
		cloned[i] = e
	}
	return cloned
}
