package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jaekyeom/dayrecap/internal/application"
	"github.com/jaekyeom/dayrecap/internal/domain"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var (
		today bool
		force bool
	)

	rootCmd := &cobra.Command{
		Use:           "dayrecap [YYYYMMDD]",
		Short:         "dayrecap: generate a daily digital-activity summary",
		Long:          "dayrecap collects one day's desktop activity, browser history, AI tool sessions, calendar events and git history into a markdown report, optionally summarized by Gemini and posted to Slack.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.Flags().BoolVar(&today, "today", false, "summarize today instead of yesterday")
	rootCmd.Flags().BoolVar(&force, "force", false, "generate the report even on weekends and holidays")

	a, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		targetDate, err := resolveTargetDate(args, today, time.Now())
		if err != nil {
			return err
		}

		return runDaily(cmd, a, targetDate, force)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newCalendarsCmd(a),
		newHistoryCmd(a),
	)

	return rootCmd
}

// resolveTargetDate picks the report day: explicit YYYYMMDD argument, today
// with --today, yesterday otherwise.
func resolveTargetDate(args []string, today bool, now time.Time) (time.Time, error) {
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("20060102", args[0], time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: expected YYYYMMDD, got %q", domain.ErrBadDateArgument, args[0])
		}
		return parsed, nil
	}
	if today {
		return now, nil
	}

	return now.AddDate(0, 0, -1), nil
}

func runDaily(cmd *cobra.Command, a *app, targetDate time.Time, force bool) error {
	window := domain.NewTimeWindow(targetDate)

	if !force && a.holidays.IsNonWorkingDay(window.Start) {
		fmt.Fprintf(cmd.OutOrStdout(), "😴 %s는 휴일입니다. 리포트를 생성하지 않습니다. (--force로 무시)\n",
			window.Start.Format("2006-01-02"))
		return nil
	}

	ctx := cmd.Context()
	calendarNames := resolveCalendars(cmd, a)

	var result application.Result
	err := runFetchSpinner(ctx, cmd.ErrOrStderr(), "활동 데이터 수집 중...", func(ctx context.Context) error {
		r, genErr := a.generator.Generate(ctx, window, calendarNames)
		result = r
		return genErr
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ 리포트 저장: %s\n", result.Path)
	return nil
}

// resolveCalendars never fails the run: meetings are optional, so a broken
// Calendar bridge or an aborted picker only means an empty meetings section.
// The interactive picker is reserved for terminal runs; headless runs use
// whatever is configured or stored.
func resolveCalendars(cmd *cobra.Command, a *app) []string {
	ctx := cmd.Context()

	var (
		names []string
		err   error
	)
	if readerIsTerminal(cmd.InOrStdin()) {
		names, err = a.resolver.ResolveOrPrompt(ctx)
	} else {
		names, err = a.resolver.Resolve(ctx)
	}
	if err != nil {
		a.logger.Warn("calendar resolution failed, skipping meetings", "error", err)
		return nil
	}
	if len(names) == 0 {
		a.logger.Warn("no calendars selected, skipping meetings")
	}

	return names
}

func readerIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
