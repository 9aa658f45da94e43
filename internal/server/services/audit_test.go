package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/radiolab/radiometer-auth/internal/logging"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Info(ctx context.Context, msg string, args ...any) {}

func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {}

func (l *recordingLogger) With(args ...any) logging.Logger { return l }

func (l *recordingLogger) warned(fragment string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.warns {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

type blockingAuditRepo struct {
	release chan struct{}
	calls   chan struct{}
}

func (b *blockingAuditRepo) Append(ctx context.Context, component, category, message string) error {
	b.calls <- struct{}{}
	<-b.release
	return nil
}

type failingAuditRepo struct{}

func (failingAuditRepo) Append(ctx context.Context, component, category, message string) error {
	return errors.New("db down")
}

func TestAuditDispatcher_DrainsOnClose(t *testing.T) {
	repo := &memAuditRepo{}
	d := NewAuditDispatcher(repo, testLogger(), 16)

	for i := 0; i < 10; i++ {
		d.Append("auth", "token", "entry")
	}
	d.Close()

	if got := len(repo.all()); got != 10 {
		t.Fatalf("want 10 entries after close, got %d", got)
	}
	if d.Dropped() != 0 {
		t.Fatalf("unexpected drops: %d", d.Dropped())
	}
}

func TestAuditDispatcher_DropsWhenBufferFull(t *testing.T) {
	repo := &blockingAuditRepo{
		release: make(chan struct{}),
		calls:   make(chan struct{}, 16),
	}
	d := NewAuditDispatcher(repo, testLogger(), 1)

	// occupy the worker so nothing is consumed from the buffer
	d.Append("auth", "token", "in flight")
	<-repo.calls

	d.Append("auth", "token", "buffered")
	d.Append("auth", "token", "overflow")

	if d.Dropped() != 1 {
		t.Fatalf("want 1 dropped entry, got %d", d.Dropped())
	}

	close(repo.release)
	d.Close()
}

func TestAuditDispatcher_CloseReportsDrops(t *testing.T) {
	repo := &blockingAuditRepo{
		release: make(chan struct{}),
		calls:   make(chan struct{}, 16),
	}
	log := &recordingLogger{}
	d := NewAuditDispatcher(repo, log, 1)

	d.Append("auth", "token", "in flight")
	<-repo.calls
	d.Append("auth", "token", "buffered")
	d.Append("auth", "token", "overflow")

	close(repo.release)
	d.Close()

	if !log.warned("audit entries dropped") {
		t.Fatalf("close did not report dropped entries, warns: %v", log.warns)
	}
}

func TestAuditDispatcher_AppendAfterCloseIsNoop(t *testing.T) {
	repo := &memAuditRepo{}
	d := NewAuditDispatcher(repo, testLogger(), 4)
	d.Close()
	d.Close() // idempotent

	d.Append("auth", "token", "late")

	if got := len(repo.all()); got != 0 {
		t.Fatalf("entry accepted after close: %d", got)
	}
}

func TestAuditDispatcher_WriteFailureDoesNotPropagate(t *testing.T) {
	d := NewAuditDispatcher(failingAuditRepo{}, testLogger(), 4)

	d.Append("auth", "token", "entry")
	d.Close() // must not panic or hang
}
