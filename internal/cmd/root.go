// Package cmd implements the clipcore command-line surface, following
// the teacher's cobra root-command-plus-subcommands layout.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nathfavour/clipcore/internal/config"
	"github.com/nathfavour/clipcore/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "clipcore",
	Short: "A clipboard history indexing core",
	Long: `clipcore captures clipboard changes, persists them durably, and
indexes their text for fast substring search across recent history.`,
}

// Execute adds every subcommand to the root command and runs it against ctx.
func Execute(ctx context.Context) error {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.ExecuteContext(ctx)
}

func buildLogger() logger.Logger {
	return logger.New(logLevel)
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}
