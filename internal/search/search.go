// Package search implements SearchFacade, the read path over
// HistoryStore and SubstringIndex (spec.md §4.6).
package search

import (
	"context"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/clipcoreerr"
	"github.com/nathfavour/clipcore/internal/index"
	"github.com/nathfavour/clipcore/internal/logger"
	"github.com/nathfavour/clipcore/internal/store"
)

// hydrationWaiter is satisfied by *indexer.Supervisor; kept as a narrow
// interface so search does not import indexer.
type hydrationWaiter interface {
	Ready() <-chan struct{}
}

// Facade is the read path every UI/CLI surface depends on. It never
// mutates HistoryStore or the index.
type Facade struct {
	Store           store.HistoryStore
	Index           *index.Index
	Hydration       hydrationWaiter
	RetentionWindow map[clipboard.Kind]time.Duration
	DefaultWindow   time.Duration
	Log             logger.Logger
	Now             func() time.Time
	// HydrationTimeout bounds how long List/Search wait for startup
	// hydration to complete before giving up and returning an empty
	// result (spec.md §7's ~1s NotInitializedError deadline).
	HydrationTimeout time.Duration
}

func (f *Facade) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Facade) window(kind clipboard.Kind) time.Duration {
	if f.RetentionWindow != nil {
		if w, ok := f.RetentionWindow[kind]; ok {
			return w
		}
	}
	return f.DefaultWindow
}

func (f *Facade) awaitHydration(ctx context.Context) bool {
	if f.Hydration == nil {
		return true
	}
	timeout := f.HydrationTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.Hydration.Ready():
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		f.Log.Warn("search facade read attempted before hydration finished",
			"error", clipcoreerr.New(clipcoreerr.CodeNotInitialized, "startup hydration still in progress"))
		return false
	}
}

// List returns the most recent limit records of the requested kinds
// directly from HistoryStore, applying per-kind retention cutoffs
// (spec.md §4.6).
func (f *Facade) List(ctx context.Context, limit int, kinds []clipboard.Kind) []clipboard.HistoryRecord {
	if !f.awaitHydration(ctx) {
		return nil
	}

	candidates := kinds
	if candidates == nil {
		candidates = []clipboard.Kind{clipboard.KindText, clipboard.KindImage, clipboard.KindFile}
	}
	cutoffs := make(map[clipboard.Kind]time.Time, len(candidates))
	now := f.now()
	for _, k := range candidates {
		cutoffs[k] = now.Add(-f.window(k))
	}

	records, err := f.Store.ListRecent(ctx, limit, kinds, cutoffs)
	if err != nil {
		if clipcoreerr.Is(err, clipcoreerr.CodeStoreQuery) {
			f.Log.WithFields(map[string]interface{}{"code": clipcoreerr.CodeStoreQuery}).Error("list clipboard history", "error", err)
		} else {
			f.Log.Error("list clipboard history", "error", err)
		}
		return nil
	}
	return records
}

// Search forwards a non-empty query to SubstringIndex.Search and
// resolves the returned ids through HistoryStore.GetByIDs, which
// preserves the requested ordering. An empty query behaves like List
// (spec.md §4.6).
func (f *Facade) Search(ctx context.Context, query string, limit int, kinds []clipboard.Kind) []clipboard.HistoryRecord {
	if query == "" {
		return f.List(ctx, limit, kinds)
	}

	if !f.awaitHydration(ctx) {
		return nil
	}

	ids := f.Index.Search(query, limit, kinds)
	if len(ids) == 0 {
		return nil
	}

	records, err := f.Store.GetByIDs(ctx, ids)
	if err != nil {
		if clipcoreerr.Is(err, clipcoreerr.CodeStoreQuery) {
			f.Log.WithFields(map[string]interface{}{"code": clipcoreerr.CodeStoreQuery}).Error("resolve search results", "error", err)
		} else {
			f.Log.Error("resolve search results", "error", err)
		}
		return nil
	}
	return records
}
