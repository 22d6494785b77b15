package cmd

import (
	"context"
	"fmt"

	"github.com/nathfavour/clipcore/internal/config"
	"github.com/nathfavour/clipcore/internal/index"
	"github.com/nathfavour/clipcore/internal/indexer"
	"github.com/nathfavour/clipcore/internal/search"
	"github.com/nathfavour/clipcore/internal/store"
	"github.com/nathfavour/clipcore/internal/store/sqlite"
)

// openReadFacade opens the history store and builds a one-shot,
// already-hydrated search.Facade for read-only CLI commands. It never
// starts CaptureLoop, IngestPipeline, or the eviction task — a CLI query
// shouldn't spin up the full runtime.
func openReadFacade(ctx context.Context) (*search.Facade, func() error, error) {
	log := buildLogger()

	cfg, err := loadConfig()
	if err != nil {
		log.Warn("using default configuration", "error", err)
	}

	historyStore, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history store: %w", err)
	}

	idx := index.New()
	sup := indexer.New(historyStore, idx, cfg.RetentionWindow, config.DefaultRetentionWindow, cfg.EvictionPeriod, log)
	if err := sup.Hydrate(ctx); err != nil {
		historyStore.Close()
		return nil, nil, fmt.Errorf("hydrate index: %w", err)
	}

	facade := &search.Facade{
		Store:           historyStore,
		Index:           idx,
		Hydration:       sup,
		RetentionWindow: cfg.RetentionWindow,
		DefaultWindow:   config.DefaultRetentionWindow,
		Log:             log,
	}

	closeFn := func() error { return historyStore.Close() }
	return facade, closeFn, nil
}

var _ store.HistoryStore = (*sqlite.Store)(nil)
