package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radiolab/radiometer-auth/internal/logging"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/auditlog"
)

// auditWriteTimeout bounds a single audit insert so a slow store cannot
// stall the drain loop.
const auditWriteTimeout = 5 * time.Second

type AuditEntry struct {
	Component string
	Category  string
	Message   string
}

// AuditDispatcher appends audit entries to durable storage asynchronously.
// Append never blocks and never fails the calling flow: when the buffer is
// full the entry is dropped and counted. A write failure is logged, not
// propagated.
type AuditDispatcher struct {
	repo      auditlog.Repository
	logger    logging.Logger
	ch        chan AuditEntry
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewAuditDispatcher(repo auditlog.Repository, logger logging.Logger, bufferSize int) *AuditDispatcher {
	if bufferSize <= 0 {
		bufferSize = 64
	}

	d := &AuditDispatcher{
		repo:   repo,
		logger: logger.With("module", "audit"),
		ch:     make(chan AuditEntry, bufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *AuditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case entry := <-d.ch:
			d.write(entry)
		case <-d.done:
			// drain whatever is still buffered before exiting
			for {
				select {
				case entry := <-d.ch:
					d.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (d *AuditDispatcher) write(entry AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := d.repo.Append(ctx, entry.Component, entry.Category, entry.Message); err != nil {
		d.logger.Warn(ctx, "audit write failed", "error", err.Error())
	}
}

// Append enqueues an audit entry. Safe to call concurrently; a no-op after
// Close. Entries are dropped when the buffer is full.
func (d *AuditDispatcher) Append(component, category, message string) {
	if d == nil || d.closed.Load() {
		return
	}

	select {
	case d.ch <- AuditEntry{Component: component, Category: category, Message: message}:
	case <-d.done:
	default:
		d.dropped.Add(1)
	}
}

// Close stops accepting entries, drains the buffer and waits for the worker.
// Entries lost to a full buffer during the dispatcher's lifetime are
// reported once here.
func (d *AuditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
		if n := d.Dropped(); n > 0 {
			d.logger.Warn(context.Background(), "audit entries dropped", "count", n)
		}
	})
}

// Dropped returns the number of entries discarded due to a full buffer.
func (d *AuditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
