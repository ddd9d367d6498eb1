// Package storage persists ledger snapshots into a key-value blob store.
//
// Each collection (wallets, transactions, loans) is stored as a JSON array
// under its own key. Snapshots are loaded wholesale at startup and rewritten
// wholesale after every mutation. A missing key is an empty collection.
//
// A version blob counts saves. Every save names the version it was based on
// and fails with ErrConflict when another writer saved in between, so
// processes sharing a store never overwrite each other's changes.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"moneyflow/internal/core"
)

// Logical collection names. The repository prefixes them before they reach
// the blob store.
const (
	KeyWallets      = "wallets"
	KeyTransactions = "transactions"
	KeyLoans        = "loans"
	KeyVersion      = "version"

	DefaultKeyPrefix = "moneyflow_"
)

// ErrConflict reports that the stored snapshot changed since it was read.
var ErrConflict = errors.New("stored ledger was changed by another writer")

// maxLoadAttempts bounds the re-reads of a snapshot torn by a concurrent save.
const maxLoadAttempts = 3

// Guard makes a PutAll conditional: the blob under Key must still hold Old
// (nil: the key must be absent). It is set to New together with the other
// blobs.
type Guard struct {
	Key      string
	Old, New []byte
}

// BlobStore is the external key-value store holding the serialized
// collections.
type BlobStore interface {
	// Get returns the blob stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// PutAll writes every blob atomically. With a non-nil guard nothing is
	// written and ErrConflict is returned when the guard does not hold.
	PutAll(ctx context.Context, blobs map[string][]byte, guard *Guard) error
	Close() error
}

// Repository loads and saves ledger snapshots through a BlobStore.
type Repository struct {
	blobs  BlobStore
	prefix string
}

func NewRepository(blobs BlobStore, prefix string) *Repository {
	return &Repository{blobs: blobs, prefix: prefix}
}

func (r *Repository) key(name string) string { return r.prefix + name }

// Load reads the three collections and the version they belong to. A save
// landing between the reads is detected by the version moving, and the
// collections are read again.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, uint64, error) {
	for attempt := 1; ; attempt++ {
		before, err := r.Version(ctx)
		if err != nil {
			return core.Snapshot{}, 0, err
		}
		snap, err := r.loadCollections(ctx)
		if err != nil {
			return core.Snapshot{}, 0, err
		}
		after, err := r.Version(ctx)
		if err != nil {
			return core.Snapshot{}, 0, err
		}
		if before == after {
			return snap, after, nil
		}
		if attempt == maxLoadAttempts {
			return core.Snapshot{}, 0, fmt.Errorf("load snapshot: %w", ErrConflict)
		}
	}
}

// Version returns the number of saves the store has seen; 0 when the
// ledger was never saved.
func (r *Repository) Version(ctx context.Context) (uint64, error) {
	data, ok, err := r.blobs.Get(ctx, r.key(KeyVersion))
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", KeyVersion, err)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", KeyVersion, err)
	}
	return v, nil
}

func (r *Repository) loadCollections(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	if err := r.load(ctx, KeyWallets, &snap.Wallets); err != nil {
		return core.Snapshot{}, err
	}
	if err := r.load(ctx, KeyTransactions, &snap.Transactions); err != nil {
		return core.Snapshot{}, err
	}
	if err := r.load(ctx, KeyLoans, &snap.Loans); err != nil {
		return core.Snapshot{}, err
	}
	for i := range snap.Loans {
		if snap.Loans[i].Payments == nil {
			snap.Loans[i].Payments = []core.Payment{}
		}
	}
	return snap, nil
}

func (r *Repository) load(ctx context.Context, name string, dst any) error {
	data, ok, err := r.blobs.Get(ctx, r.key(name))
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	if !ok || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Save rewrites the three collections, provided the stored version is still
// base, and returns the new version. Otherwise nothing is written and the
// error wraps ErrConflict.
func (r *Repository) Save(ctx context.Context, snap core.Snapshot, base uint64) (uint64, error) {
	blobs := make(map[string][]byte, 3)
	for name, v := range map[string]any{
		KeyWallets:      nonNil(snap.Wallets),
		KeyTransactions: nonNil(snap.Transactions),
		KeyLoans:        nonNil(snap.Loans),
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return base, fmt.Errorf("encode %s: %w", name, err)
		}
		blobs[r.key(name)] = data
	}

	next := base + 1
	guard := &Guard{Key: r.key(KeyVersion), New: encodeVersion(next)}
	if base > 0 {
		guard.Old = encodeVersion(base)
	}
	if err := r.blobs.PutAll(ctx, blobs, guard); err != nil {
		return base, fmt.Errorf("save snapshot: %w", err)
	}
	return next, nil
}

func encodeVersion(v uint64) []byte {
	return []byte(strconv.FormatUint(v, 10))
}

func (r *Repository) Close() error {
	if r.blobs == nil {
		return nil
	}
	return r.blobs.Close()
}

// nonNil makes empty collections encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
