package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jaekyeom/dayrecap/internal/adapters/activitywatch"
	"github.com/jaekyeom/dayrecap/internal/adapters/agentsession"
	"github.com/jaekyeom/dayrecap/internal/adapters/archive"
	"github.com/jaekyeom/dayrecap/internal/adapters/calprompt"
	"github.com/jaekyeom/dayrecap/internal/adapters/calstore"
	"github.com/jaekyeom/dayrecap/internal/adapters/clihistory"
	"github.com/jaekyeom/dayrecap/internal/adapters/convlog"
	"github.com/jaekyeom/dayrecap/internal/adapters/gemini"
	"github.com/jaekyeom/dayrecap/internal/adapters/gitlog"
	"github.com/jaekyeom/dayrecap/internal/adapters/idelog"
	"github.com/jaekyeom/dayrecap/internal/adapters/maccal"
	"github.com/jaekyeom/dayrecap/internal/adapters/notify"
	markdownrender "github.com/jaekyeom/dayrecap/internal/adapters/render/markdown"
	"github.com/jaekyeom/dayrecap/internal/adapters/slackhook"
	"github.com/jaekyeom/dayrecap/internal/application"
	"github.com/jaekyeom/dayrecap/internal/config"
	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

type app struct {
	cfg       config.Config
	logger    *slog.Logger
	holidays  domain.HolidayCalendar
	generator *application.Generator
	resolver  *application.CalendarResolver
	archive   ports.ReportArchive
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	holidays, err := config.LoadHolidays(cfg.HolidaysPath)
	if err != nil {
		return nil, fmt.Errorf("load holiday table: %w", err)
	}

	store, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open report archive: %w", err)
	}

	calendarFetcher := maccal.NewFetcher(cfg.Calendar.ExcludeRecurring, cfg.Calendar.RecurringWhitelist, logger)

	aggregator := application.NewAggregator(application.Sources{
		Activity:      activitywatch.NewClient(cfg.APIHost, cfg.APIPort, cfg.MinDurationSeconds, nil, logger),
		Conversations: convlog.NewFetcher(cfg.ConversationLogDir, logger),
		Sessions:      agentsession.NewFetcher(cfg.SessionLogDir, logger),
		Queries:       idelog.NewFetcher(cfg.QueryDumpDir, logger),
		History:       clihistory.NewFetcher(cfg.CLIHistoryPath, logger),
		Calendar:      calendarFetcher,
		Repo:          gitlog.NewFetcher(cfg.WorkDirs, cfg.AssistantBrainDir, logger),
	}, logger)

	opts := application.GeneratorOptions{
		Archive: store,
		Clock:   ports.SystemClock{},
	}
	if cfg.GeminiAPIKey != "" {
		opts.Summarizer = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.SlackWebhookURL != "" {
		opts.Messenger = slackhook.NewSink(cfg.SlackWebhookURL)
	}
	if cfg.NotifyEnabled {
		opts.Notifier = notify.NewDesktop()
	}

	generator := application.NewGenerator(aggregator, markdownrender.NewRenderer(), cfg.OutputDir, opts, logger)

	resolver := application.NewCalendarResolver(
		cfg.Calendar.Names,
		calstore.NewStore(cfg.SelectionPath),
		calendarFetcher,
		calprompt.NewPrompter(),
		logger,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		holidays:  holidays,
		generator: generator,
		resolver:  resolver,
		archive:   store,
	}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
