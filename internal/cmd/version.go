package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clipcore version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clipcore v%s\n", Version)
		},
	}
}
