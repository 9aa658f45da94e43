package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/radiolab/radiometer-auth/internal/logging"
	"github.com/radiolab/radiometer-auth/internal/server/models"
)

type countingTokensRepo struct {
	mu      sync.Mutex
	sweeps  int
	removed int64
	err     error
}

func (r *countingTokensRepo) Create(ctx context.Context, token string, emittedAt, expiresAt time.Time) error {
	return nil
}

func (r *countingTokensRepo) Find(ctx context.Context, token string) (*models.ServiceToken, error) {
	return nil, nil
}

func (r *countingTokensRepo) Revoke(ctx context.Context, token string) error {
	return nil
}

func (r *countingTokensRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	return r.removed, r.err
}

func (r *countingTokensRepo) sweepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweeps
}

func newHousekeepingApp(repo *countingTokensRepo) *App {
	return &App{
		logger:         logging.NewJSON(io.Discard),
		tokens:         repo,
		housekeepEvery: 5 * time.Millisecond,
	}
}

func TestHousekeepTokens_SweepsPeriodically(t *testing.T) {
	repo := &countingTokensRepo{removed: 2}
	app := newHousekeepingApp(repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.housekeepTokens(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if repo.sweepCount() < 2 {
		t.Fatalf("expected repeated sweeps, got %d", repo.sweepCount())
	}
}

func TestHousekeepTokens_KeepsRunningAfterFailure(t *testing.T) {
	repo := &countingTokensRepo{err: errors.New("db down")}
	app := newHousekeepingApp(repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.housekeepTokens(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if repo.sweepCount() < 2 {
		t.Fatalf("a failed sweep stopped the loop after %d calls", repo.sweepCount())
	}
}
