package application

import (
	"context"
	"log/slog"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

// Sources bundles every data source the aggregator fans out to. Any field
// may be nil; a missing source contributes nothing.
type Sources struct {
	Activity      ports.ActivitySource
	Conversations ports.ConversationSource
	Sessions      ports.SessionSource
	Queries       ports.QuerySource
	History       ports.HistorySource
	Calendar      ports.CalendarSource
	Repo          ports.RepoSource
}

// Aggregator collects one day's activity from every source. A failing source
// degrades to its zero value with a warning; one broken integration must not
// take the whole report down.
type Aggregator struct {
	sources Sources
	logger  *slog.Logger
}

func NewAggregator(sources Sources, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{sources: sources, logger: logger}
}

func (a *Aggregator) Aggregate(ctx context.Context, window domain.TimeWindow, calendarNames []string) domain.AggregatedDay {
	day := domain.AggregatedDay{Window: window}

	if src := a.sources.Activity; src != nil {
		apps, err := src.FetchWindowActivity(ctx, window)
		if err != nil {
			a.logger.Warn("window activity fetch failed", "error", err)
		} else {
			day.Activity.AppDurations = apps
		}

		domains, visits, err := src.FetchWebActivity(ctx, window)
		if err != nil {
			a.logger.Warn("web activity fetch failed", "error", err)
		} else {
			day.Activity.DomainDurations = domains
			day.Activity.Visits = visits
		}
	}

	if src := a.sources.Conversations; src != nil {
		tasks, err := src.FetchTasks(ctx, window)
		if err != nil {
			a.logger.Warn("conversation fetch failed", "error", err)
		} else {
			day.Tasks = tasks
		}
	}

	if src := a.sources.Sessions; src != nil {
		sessions, err := src.FetchSessions(ctx, window)
		if err != nil {
			a.logger.Warn("session fetch failed", "error", err)
		} else {
			day.Sessions = sessions
		}
	}

	if src := a.sources.Queries; src != nil {
		queries, err := src.FetchQueries(ctx, window)
		if err != nil {
			a.logger.Warn("query fetch failed", "error", err)
		} else {
			day.Queries = queries
		}
	}

	if src := a.sources.History; src != nil {
		commands, err := src.FetchCommands(ctx, window)
		if err != nil {
			a.logger.Warn("history fetch failed", "error", err)
		} else {
			day.Commands = commands
		}
	}

	if src := a.sources.Calendar; src != nil && len(calendarNames) > 0 {
		meetings, err := src.FetchEvents(ctx, window, calendarNames)
		if err != nil {
			a.logger.Warn("calendar fetch failed", "error", err)
		} else {
			day.Meetings = meetings
		}
	}

	if src := a.sources.Repo; src != nil {
		repo, err := src.FetchRepoActivity(ctx, window)
		if err != nil {
			a.logger.Warn("repo activity fetch failed", "error", err)
		} else {
			day.Repo = repo
		}
	}

	return day
}
