package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathfavour/clipcore/internal/clipboard/systemclip"
	"github.com/nathfavour/clipcore/internal/runtime"
	"github.com/nathfavour/clipcore/internal/store/sqlite"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard capture and indexing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := buildLogger()

			cfg, err := loadConfig()
			if err != nil {
				log.Warn("using default configuration", "error", err)
			}

			historyStore, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}

			source := systemclip.New(nil)

			handle, err := runtime.Start(ctx, cfg, log, source, historyStore)
			if err != nil {
				historyStore.Close()
				return fmt.Errorf("start runtime: %w", err)
			}

			log.Info("clipcore running", "db_path", cfg.DBPath, "poll_interval", cfg.PollInterval)

			<-ctx.Done()
			log.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return handle.Shutdown(shutdownCtx)
		},
	}
}
