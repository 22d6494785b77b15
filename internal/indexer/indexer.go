// Package indexer implements IndexerSupervisor: startup hydration of the
// SubstringIndex from HistoryStore, incremental ingest of newly
// persisted records, and periodic eviction of expired ones (spec.md
// §4.5).
package indexer

import (
	"context"
	"sync"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/index"
	"github.com/nathfavour/clipcore/internal/logger"
	"github.com/nathfavour/clipcore/internal/store"
)

// Supervisor owns the SubstringIndex handle exclusively; SearchFacade is
// given only a read-only *index.Index reference (spec.md §3's ownership
// rules).
type Supervisor struct {
	Store           store.HistoryStore
	Index           *index.Index
	RetentionWindow map[clipboard.Kind]time.Duration
	DefaultWindow   time.Duration
	EvictionPeriod  time.Duration
	Log             logger.Logger
	Now             func() time.Time

	mu             sync.Mutex
	lastIndexedAt  time.Time
	lastHydratedAt time.Time

	ready     chan struct{}
	readyOnce sync.Once
}

// New builds a Supervisor. Call Hydrate once before RunEviction.
func New(st store.HistoryStore, idx *index.Index, retention map[clipboard.Kind]time.Duration, defaultWindow, evictionPeriod time.Duration, log logger.Logger) *Supervisor {
	return &Supervisor{
		Store:           st,
		Index:           idx,
		RetentionWindow: retention,
		DefaultWindow:   defaultWindow,
		EvictionPeriod:  evictionPeriod,
		Log:             log,
		Now:             time.Now,
		ready:           make(chan struct{}),
	}
}

func (s *Supervisor) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Supervisor) window(kind clipboard.Kind) time.Duration {
	if s.RetentionWindow != nil {
		if w, ok := s.RetentionWindow[kind]; ok {
			return w
		}
	}
	return s.DefaultWindow
}

// oldestCutoff returns the earliest (most permissive) cutoff among the
// configured per-kind windows, used to bound the single hydration query
// HistoryStore exposes.
func (s *Supervisor) oldestCutoff(now time.Time) time.Time {
	longest := s.DefaultWindow
	for _, w := range s.RetentionWindow {
		if w > longest {
			longest = w
		}
	}
	return now.Add(-longest)
}

// Hydrate loads every record with captured_at after the retention
// cutoff and bulk-inserts them into the index, then marks the
// supervisor ready (spec.md §4.5's startup step).
func (s *Supervisor) Hydrate(ctx context.Context) error {
	now := s.now()
	cutoff := s.oldestCutoff(now)

	records, err := s.Store.ListAfter(ctx, cutoff)
	if err != nil {
		s.Log.Error("hydrate index", "error", err)
		return err
	}

	// Records outside their own kind's (possibly shorter) window are
	// filtered out before insertion, since ListAfter only bounds by the
	// single longest window.
	filtered := records[:0]
	for _, r := range records {
		if r.CapturedAt.After(now.Add(-s.window(r.Kind))) {
			filtered = append(filtered, r)
		}
	}

	s.Index.InsertBatch(filtered)

	s.mu.Lock()
	s.lastHydratedAt = now
	for _, r := range filtered {
		if r.CapturedAt.After(s.lastIndexedAt) {
			s.lastIndexedAt = r.CapturedAt
		}
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	return nil
}

// Ready returns a channel closed once startup hydration has completed.
func (s *Supervisor) Ready() <-chan struct{} { return s.ready }

// OnNewRecord integrates a freshly persisted record into the index
// (spec.md §4.5 point 1).
func (s *Supervisor) OnNewRecord(record clipboard.HistoryRecord) {
	if record.CapturedAt.Before(s.now().Add(-s.window(record.Kind))) {
		return
	}
	s.Index.Insert(record)

	s.mu.Lock()
	if record.CapturedAt.After(s.lastIndexedAt) {
		s.lastIndexedAt = record.CapturedAt
	}
	s.mu.Unlock()
}

// RunEviction runs the periodic eviction task until ctx is cancelled
// (spec.md §4.5 point 2). It tolerates lagging: a slow pass only grows
// memory use, never corrupts search ordering.
func (s *Supervisor) RunEviction(ctx context.Context) {
	ticker := time.NewTicker(s.EvictionPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictOnce(ctx)
		}
	}
}

func (s *Supervisor) evictOnce(ctx context.Context) {
	now := s.now()

	for _, kind := range []clipboard.Kind{clipboard.KindText, clipboard.KindImage, clipboard.KindFile} {
		cutoff := now.Add(-s.window(kind))
		ids := s.Index.IDsOlderThan(cutoff)
		if len(ids) == 0 {
			continue
		}

		records, err := s.Store.GetByIDs(ctx, ids)
		if err != nil {
			s.Log.Error("load records for eviction", "error", err)
			continue
		}

		for _, r := range records {
			if r.Kind != kind {
				continue
			}
			s.Index.Delete(r)
		}
	}
}
