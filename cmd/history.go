package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	historyrender "github.com/jaekyeom/dayrecap/internal/adapters/render/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived report runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.archive.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), historyrender.Render(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")

	return cmd
}
