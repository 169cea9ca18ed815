package workout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrjola/intervalplan/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

func TestCachedCatalog_List(t *testing.T) {
	var (
		loads   atomic.Int32
		failing atomic.Bool
		now     = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	)
	source := CatalogFunc(func(context.Context) ([]Exercise, error) {
		loads.Add(1)
		if failing.Load() {
			return nil, errors.New("database is locked")
		}
		return DefaultExercises(), nil
	})
	c := NewCachedCatalog(source, time.Minute, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	c.now = func() time.Time { return now }

	first, err := c.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	first[0].Tags[0] = "mutated"

	second, err := c.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if loads.Load() != 1 {
		t.Errorf("loads = %d, want 1", loads.Load())
	}
	if second[0].Tags[0] == "mutated" {
		t.Error("callers share the cached tags")
	}

	now = now.Add(2 * time.Minute)
	failing.Store(true)
	stale, err := c.List(t.Context())
	if err != nil {
		t.Fatalf("List() with failing source error = %v", err)
	}
	if loads.Load() != 2 {
		t.Errorf("loads = %d, want 2", loads.Load())
	}
	if len(stale) != len(DefaultExercises()) {
		t.Errorf("stale catalog has %d exercises", len(stale))
	}
}

func TestCachedCatalog_List_failsWithoutCache(t *testing.T) {
	source := CatalogFunc(func(context.Context) ([]Exercise, error) {
		return nil, errors.New("no such table: exercises")
	})
	c := NewCachedCatalog(source, time.Minute, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	if _, err := c.List(t.Context()); err == nil {
		t.Error("List() error = nil, want error")
	}
}

func TestCachedCatalog_List_concurrent(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	source := CatalogFunc(func(context.Context) ([]Exercise, error) {
		loads.Add(1)
		<-release
		return DefaultExercises(), nil
	})
	c := NewCachedCatalog(source, time.Minute, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	g, ctx := errgroup.WithContext(t.Context())
	for range 10 {
		g.Go(func() error {
			exercises, err := c.List(ctx)
			if err == nil && len(exercises) == 0 {
				err = errors.New("empty catalog")
			}
			return err
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	if err := g.Wait(); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := loads.Load(); got > 2 {
		t.Errorf("loads = %d, want concurrent loads collapsed", got)
	}
}

func TestCachedCatalog_List_cancelledCallerDoesNotFailOthers(t *testing.T) {
	var loads atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	source := CatalogFunc(func(ctx context.Context) ([]Exercise, error) {
		if loads.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return DefaultExercises(), nil
	})
	c := NewCachedCatalog(source, time.Minute, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	leaderCtx, cancelLeader := context.WithCancel(t.Context())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.List(leaderCtx)
		leaderErr <- err
	}()
	<-started

	type result struct {
		exercises []Exercise
		err       error
	}
	follower := make(chan result, 1)
	go func() {
		exercises, err := c.List(t.Context())
		follower <- result{exercises: exercises, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("leader List() error = %v, want context.Canceled", err)
	}
	close(release)

	got := <-follower
	if got.err != nil {
		t.Fatalf("follower List() error = %v", got.err)
	}
	if len(got.exercises) != len(DefaultExercises()) {
		t.Errorf("follower got %d exercises, want %d", len(got.exercises), len(DefaultExercises()))
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
}
