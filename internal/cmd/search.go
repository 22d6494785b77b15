package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathfavour/clipcore/internal/clipboard"
)

func newSearchCmd() *cobra.Command {
	var (
		limit     int
		kindsFlag string
	)

	c := &cobra.Command{
		Use:   "search [query]",
		Short: "Search clipboard history for a substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			facade, closeFn, err := openReadFacade(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			records := facade.Search(ctx, args[0], limit, parseKinds(kindsFlag))
			printRecords(records)
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	c.Flags().StringVar(&kindsFlag, "kinds", "", "comma-separated kinds to filter by (text,image,file)")
	return c
}

func newListCmd() *cobra.Command {
	var (
		limit     int
		kindsFlag string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List the most recent clipboard history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			facade, closeFn, err := openReadFacade(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			records := facade.List(ctx, limit, parseKinds(kindsFlag))
			printRecords(records)
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	c.Flags().StringVar(&kindsFlag, "kinds", "", "comma-separated kinds to filter by (text,image,file)")
	return c
}

func parseKinds(flag string) []clipboard.Kind {
	if strings.TrimSpace(flag) == "" {
		return nil
	}
	var kinds []clipboard.Kind
	for _, part := range strings.Split(flag, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "text":
			kinds = append(kinds, clipboard.KindText)
		case "image":
			kinds = append(kinds, clipboard.KindImage)
		case "file":
			kinds = append(kinds, clipboard.KindFile)
		}
	}
	return kinds
}

func printRecords(records []clipboard.HistoryRecord) {
	if len(records) == 0 {
		fmt.Println("(no results)")
		return
	}
	for _, r := range records {
		fmt.Printf("%d\t%s\t%s\t%s\n", r.ID, r.Kind, r.CapturedAt.Format("2006-01-02 15:04:05"), r.DisplayText)
	}
}
