// Package ledger keeps wallets, transactions and loans mutually consistent.
//
// A Book owns the in-memory state. Every mutation runs under one lock: it is
// applied to a copy of the state, the copy is saved through the Store, and
// only a successful save makes it the live state. A failed save therefore
// leaves the book unchanged. Reads return copies.
//
// Several books may share one store, as the CLI and the HTTP server do. A
// save based on an outdated version is refused by the store; the book then
// reloads and applies the mutation again on the fresh state.
//
// Operations addressed at an unknown id (update, delete, add payment) are
// no-ops and return nil.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
	"moneyflow/internal/log"
	"moneyflow/internal/metrics"
	"moneyflow/internal/storage"
)

// maxCommitAttempts bounds how often a mutation is re-applied after losing
// a save race to another writer.
const maxCommitAttempts = 3

// Store persists whole versioned snapshots. Save must fail with an error
// wrapping storage.ErrConflict when the stored version is no longer base.
type Store interface {
	Load(ctx context.Context) (core.Snapshot, uint64, error)
	Save(ctx context.Context, snap core.Snapshot, base uint64) (uint64, error)
	Version(ctx context.Context) (uint64, error)
}

type Book struct {
	mu       sync.Mutex
	store    Store
	state    core.Snapshot
	version  uint64
	revision uint64

	publisher events.Publisher
	logger    *log.Logger
	metrics   *metrics.Metrics
	newID     func() string
	now       func() time.Time
}

type Option func(*Book)

// WithPublisher makes the book emit an event after every committed mutation.
func WithPublisher(p events.Publisher) Option {
	return func(b *Book) { b.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(b *Book) { b.logger = l.WithComponent(log.ComponentLedger) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Book) { b.metrics = m }
}

// WithIDGenerator replaces the ULID generator, mainly for tests.
func WithIDGenerator(f func() string) Option {
	return func(b *Book) { b.newID = f }
}

// WithClock sets the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// Open loads the persisted state and returns a ready book.
func Open(ctx context.Context, store Store, opts ...Option) (*Book, error) {
	b := &Book{
		store:  store,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
		newID:  func() string { return ulid.Make().String() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	snap, version, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	b.state = snap.Clone()
	b.version = version

	b.logger.InfoContext(ctx, "Ledger loaded",
		"wallets", len(snap.Wallets),
		"transactions", len(snap.Transactions),
		"loans", len(snap.Loans))

	return b, nil
}

// mutation edits the draft state and returns the events describing the
// change. Returning no events marks the call as a no-op: nothing is saved.
type mutation func(draft *core.Snapshot) ([]events.Event, error)

func (b *Book) commit(ctx context.Context, op string, m mutation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for attempt := 1; ; attempt++ {
		draft := b.state.Clone()
		evs, err := m(&draft)
		if err != nil {
			b.metrics.MutationFailed(op)
			return err
		}
		if len(evs) == 0 {
			return nil
		}

		version, err := b.store.Save(ctx, draft, b.version)
		if errors.Is(err, storage.ErrConflict) && attempt < maxCommitAttempts {
			b.logger.WarnContext(ctx, "Ledger changed by another writer, reloading",
				log.FieldOperation, op,
				log.FieldAttempt, attempt)
			if err := b.reload(ctx); err != nil {
				b.metrics.MutationFailed(op)
				return fmt.Errorf("reload ledger: %w", err)
			}
			continue
		}
		if err != nil {
			b.metrics.MutationFailed(op)
			b.logger.ErrorContext(ctx, "Failed to persist ledger", log.FieldOperation, op, log.FieldError, err)
			return fmt.Errorf("persist ledger: %w", err)
		}

		b.state = draft
		b.version = version
		b.revision++
		b.metrics.MutationCommitted(op)
		b.logger.InfoContext(ctx, "Ledger updated",
			log.FieldOperation, op,
			log.FieldEntityID, evs[0].ID,
			log.FieldRevision, b.revision)

		b.publish(ctx, evs)
		return nil
	}
}

// reload replaces the state with the stored one. Callers hold b.mu.
func (b *Book) reload(ctx context.Context) error {
	snap, version, err := b.store.Load(ctx)
	if err != nil {
		return err
	}
	b.state = snap
	b.version = version
	b.revision++
	return nil
}

// Sync picks up changes saved by other writers since the book last read or
// wrote the store. It is a cheap version check when nothing changed.
func (b *Book) Sync(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	version, err := b.store.Version(ctx)
	if err != nil {
		return fmt.Errorf("read ledger version: %w", err)
	}
	if version == b.version {
		return nil
	}
	if err := b.reload(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}
	b.logger.InfoContext(ctx, "Ledger reloaded", log.FieldRevision, b.revision)
	return nil
}

// publish forwards events; a failure is logged and never undoes the mutation.
func (b *Book) publish(ctx context.Context, evs []events.Event) {
	if b.publisher == nil {
		return
	}
	for _, e := range evs {
		if err := b.publisher.Publish(ctx, e); err != nil {
			b.metrics.PublishFailed()
			b.logger.ErrorContext(ctx, "Failed to publish ledger event",
				log.FieldEventKind, e.Kind,
				log.FieldEntityID, e.ID,
				log.FieldError, err)
		}
	}
}

func (b *Book) event(kind events.Kind, id string) events.Event {
	e := events.New(kind, id)
	e.Timestamp = b.now().UTC()
	return e
}

// Snapshot returns a copy of the whole state.
func (b *Book) Snapshot() core.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Revision changes whenever the in-memory state does: on every committed
// mutation and on every reload.
func (b *Book) Revision() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// View returns a state copy together with the revision it belongs to.
func (b *Book) View() (core.Snapshot, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone(), b.revision
}
