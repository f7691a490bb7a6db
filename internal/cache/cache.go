package cache

import (
	"context"
	"errors"
)

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("cache: store is closed")

// Cache is the capability set shared by every dedup store variant. Callers
// hold this interface, never a concrete type.
//
// Callers must Commit or Close before process exit; entries still sitting in
// a pending batch are lost otherwise and will simply be re-processed on the
// next run.
type Cache interface {
	// FilterUncached returns the subset of ids with no committed record.
	// Entries in a pending, uncommitted batch are not required to be
	// visible here.
	FilterUncached(ctx context.Context, ids []string) ([]string, error)

	// AddItems records ids as downloaded.
	AddItems(ctx context.Context, ids []string) error

	// AddDiscardedItems records ids as discarded so they are never retried.
	AddDiscardedItems(ctx context.Context, ids []string) error

	// Commit flushes the pending batch. A no-op when the batch is empty.
	Commit(ctx context.Context) error

	// Close commits any pending batch and releases the underlying store.
	Close() error
}
