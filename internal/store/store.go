// Package store defines the HistoryStore contract (spec.md §6): durable,
// append-only, typed persistence for clipboard history, keyed by a
// monotonically increasing id.
package store

import (
	"context"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
)

// HistoryStore is the external persistence contract every component
// that touches durable storage depends on. Implementations own their
// own internal synchronization — the handle is shared across
// CaptureLoop, IngestPipeline, IndexerSupervisor, and SearchFacade.
type HistoryStore interface {
	// Append persists item and returns the fully populated HistoryRecord
	// (id assigned, Path filled in if a blob was written).
	Append(ctx context.Context, item clipboard.CapturedItem) (clipboard.HistoryRecord, error)

	// GetByIDs resolves a set of ids, ordered by (captured_at desc, id
	// desc). An empty or nil id list returns an empty result.
	GetByIDs(ctx context.Context, ids []int64) ([]clipboard.HistoryRecord, error)

	// ListAfter returns every record with captured_at strictly greater
	// than after, ordered by captured_at desc.
	ListAfter(ctx context.Context, after time.Time) ([]clipboard.HistoryRecord, error)

	// ListRecent returns the most recent limit records among the
	// requested kinds (nil kinds means no filter), applying the
	// per-kind cutoff map: a record of kind k is only eligible if
	// captured_at > cutoffs[k].
	ListRecent(ctx context.Context, limit int, kinds []clipboard.Kind, cutoffs map[clipboard.Kind]time.Time) ([]clipboard.HistoryRecord, error)

	// Delete removes a record by id. Deleting a non-existent id is a
	// no-op, not an error.
	Delete(ctx context.Context, id int64) error

	// Close releases the store's resources.
	Close() error
}
