package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

// CalendarResolver decides which calendars to query, in precedence order:
// configured names (config file or env), then the persisted selection, then
// an interactive prompt whose result is persisted for next time.
type CalendarResolver struct {
	configured []string
	store      ports.SelectionStore
	directory  ports.CalendarDirectory
	prompter   ports.CalendarPrompter
	logger     *slog.Logger
}

func NewCalendarResolver(configured []string, store ports.SelectionStore, directory ports.CalendarDirectory, prompter ports.CalendarPrompter, logger *slog.Logger) *CalendarResolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &CalendarResolver{
		configured: configured,
		store:      store,
		directory:  directory,
		prompter:   prompter,
		logger:     logger,
	}
}

// Resolve returns the calendar names without prompting. A nil result means
// no selection exists yet.
func (r *CalendarResolver) Resolve(ctx context.Context) ([]string, error) {
	if len(r.configured) > 0 {
		return r.configured, nil
	}
	if r.store == nil {
		return nil, nil
	}

	names, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calendar selection: %w", err)
	}

	return names, nil
}

// ResolveOrPrompt resolves the selection and, when nothing is configured or
// stored, runs the interactive picker and persists its result.
func (r *CalendarResolver) ResolveOrPrompt(ctx context.Context) ([]string, error) {
	names, err := r.Resolve(ctx)
	if err != nil || len(names) > 0 {
		return names, err
	}

	if r.directory == nil || r.prompter == nil {
		return nil, nil
	}

	available, err := r.directory.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	if len(available) == 0 {
		return nil, nil
	}

	selected, err := r.prompter.SelectCalendars(ctx, available)
	if err != nil {
		return nil, fmt.Errorf("prompt calendar selection: %w", err)
	}
	if len(selected) == 0 {
		return nil, domain.ErrNoCalendarSelection
	}

	if r.store != nil {
		if err := r.store.Save(ctx, selected); err != nil {
			r.logger.Warn("persist calendar selection failed", "error", err)
		}
	}

	return selected, nil
}
