package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCalendarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "Select and persist the work calendars to include in reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.resolver.ResolveOrPrompt(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "선택된 캘린더가 없습니다.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "사용할 캘린더: %s\n", strings.Join(names, ", "))
			return nil
		},
	}
}
