// Package runtime wires CaptureLoop, IngestPipeline, and
// IndexerSupervisor into a single explicit lifecycle: Start spawns every
// task, Shutdown closes the ingest channel and awaits their termination
// (spec.md §9's "task-spawning constructors" redesign note).
package runtime

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nathfavour/clipcore/internal/capture"
	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/config"
	"github.com/nathfavour/clipcore/internal/index"
	"github.com/nathfavour/clipcore/internal/indexer"
	"github.com/nathfavour/clipcore/internal/ingest"
	"github.com/nathfavour/clipcore/internal/logger"
	"github.com/nathfavour/clipcore/internal/search"
	"github.com/nathfavour/clipcore/internal/store"
)

// Handle is the running system returned by Start. The zero value is not
// usable.
type Handle struct {
	Search *search.Facade

	cancel context.CancelFunc
	ingest chan clipboard.CapturedItem
	group  *errgroup.Group
	store  store.HistoryStore
	log    logger.Logger
}

// Start constructs every component from cfg and spawns their tasks:
// CaptureLoop, IngestPipeline, and the eviction task. Hydration runs
// synchronously before Start returns, so the returned Handle's Search
// facade is immediately usable; a hydration error makes Start return
// that error instead of a Handle.
func Start(ctx context.Context, cfg *config.Config, log logger.Logger, source clipboard.Source, historyStore store.HistoryStore) (*Handle, error) {
	runCtx, cancel := context.WithCancel(context.Background())

	idx := index.New()
	sup := indexer.New(historyStore, idx, cfg.RetentionWindow, config.DefaultRetentionWindow, cfg.EvictionPeriod, log)

	if err := sup.Hydrate(ctx); err != nil {
		cancel()
		return nil, err
	}

	ingestCh := make(chan clipboard.CapturedItem, cfg.IngestQueueCapacity)
	classifier := clipboard.NewClassifier(cfg.FilesRoot, cfg.IndexCap)

	captureLoop := &capture.Loop{
		Source:     source,
		Classifier: classifier,
		Out:        ingestCh,
		Interval:   cfg.PollInterval,
		Log:        log,
	}
	pipeline := &ingest.Pipeline{
		In:          ingestCh,
		Store:       historyStore,
		OnNewRecord: sup.OnNewRecord,
		Log:         log,
	}

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		captureLoop.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		pipeline.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		sup.RunEviction(gCtx)
		return nil
	})

	facade := &search.Facade{
		Store:            historyStore,
		Index:            idx,
		Hydration:        sup,
		RetentionWindow:  cfg.RetentionWindow,
		DefaultWindow:    config.DefaultRetentionWindow,
		Log:              log,
		HydrationTimeout: time.Second,
	}

	return &Handle{
		Search: facade,
		cancel: cancel,
		ingest: ingestCh,
		group:  g,
		store:  historyStore,
		log:    log,
	}, nil
}

// Shutdown cancels every spawned task and awaits their termination.
// The ingest channel is closed only after every task has returned, so
// closing it can never race a send; if ctx expires first, the channel
// is left open.
func (h *Handle) Shutdown(ctx context.Context) error {
	h.cancel()

	done := make(chan error, 1)
	go func() { done <- h.group.Wait() }()

	var err error
	select {
	case werr := <-done:
		err = werr
		close(h.ingest)
	case <-ctx.Done():
		err = ctx.Err()
	}

	return multierr.Append(err, h.store.Close())
}
