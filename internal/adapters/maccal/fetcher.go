// Package maccal reads events from the macOS Calendar app through osascript.
// The generated AppleScript filters all-day events itself and emits one
// delimited record per event, which keeps the Go side a plain parser.
package maccal

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

const (
	fieldSeparator  = "|||"
	recordSeparator = "###"

	fetchTimeout = 200 * time.Second
	listTimeout  = 30 * time.Second
)

// scriptRunner executes an AppleScript and returns its stdout. Tests swap it
// out; production uses osascript.
type scriptRunner func(ctx context.Context, script string) (string, error)

type Fetcher struct {
	run                scriptRunner
	excludeRecurring   bool
	recurringWhitelist []string
	logger             *slog.Logger
}

var (
	_ ports.CalendarSource    = (*Fetcher)(nil)
	_ ports.CalendarDirectory = (*Fetcher)(nil)
)

func NewFetcher(excludeRecurring bool, recurringWhitelist []string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		run:                runOsascript,
		excludeRecurring:   excludeRecurring,
		recurringWhitelist: recurringWhitelist,
		logger:             logger,
	}
}

func runOsascript(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return "", fmt.Errorf("run osascript: %w", err)
	}

	return string(out), nil
}

// ListCalendars returns the names of every calendar known to Calendar.app.
func (f *Fetcher) ListCalendars(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := f.run(ctx, `tell application "Calendar" to get name of every calendar`)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	var names []string
	for _, name := range strings.Split(strings.TrimSpace(out), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// FetchEvents returns the day's timed events from the named calendars,
// sorted by start time. Recurring events are dropped unless a whitelist
// keyword appears in the title.
func (f *Fetcher) FetchEvents(ctx context.Context, window domain.TimeWindow, calendarNames []string) ([]domain.CalendarEvent, error) {
	if len(calendarNames) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	out, err := f.run(ctx, buildEventScript(window, calendarNames))
	if err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}

	events := f.parseEvents(out, window)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events, nil
}

// buildEventScript assembles the query AppleScript. Dates are set component
// by component so the script never depends on the system date locale.
func buildEventScript(window domain.TimeWindow, calendarNames []string) string {
	var b strings.Builder

	b.WriteString("set output to \"\"\n")
	b.WriteString(appleScriptDate("dayStart", window.Start))
	b.WriteString(appleScriptDate("dayEnd", window.End))
	b.WriteString("tell application \"Calendar\"\n")
	for _, name := range calendarNames {
		fmt.Fprintf(&b, "  try\n")
		fmt.Fprintf(&b, "    set cal to calendar %q\n", name)
		fmt.Fprintf(&b, "    set dayEvents to (every event of cal whose start date ≥ dayStart and start date < dayEnd and allday event is false)\n")
		fmt.Fprintf(&b, "    repeat with ev in dayEvents\n")
		fmt.Fprintf(&b, "      set startDate to start date of ev\n")
		fmt.Fprintf(&b, "      set endDate to end date of ev\n")
		fmt.Fprintf(&b, "      set output to output & (summary of ev) & \"%s\" & (hours of startDate) & \":\" & (minutes of startDate) & \"%s\" & (hours of endDate) & \":\" & (minutes of endDate) & \"%s\" & (recurrence of ev is not missing value) & \"%s\" & %q & \"%s\"\n",
			fieldSeparator, fieldSeparator, fieldSeparator, fieldSeparator, name, recordSeparator)
		fmt.Fprintf(&b, "    end repeat\n")
		fmt.Fprintf(&b, "  end try\n")
	}
	b.WriteString("end tell\n")
	b.WriteString("return output\n")

	return b.String()
}

func appleScriptDate(name string, t time.Time) string {
	return fmt.Sprintf("set %s to current date\nset year of %s to %d\nset month of %s to %d\nset day of %s to %d\nset time of %s to %d\n",
		name, name, t.Year(), name, int(t.Month()), name, t.Day(),
		name, t.Hour()*3600+t.Minute()*60+t.Second())
}

func (f *Fetcher) parseEvents(out string, window domain.TimeWindow) []domain.CalendarEvent {
	var events []domain.CalendarEvent
	for _, record := range strings.Split(out, recordSeparator) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		fields := strings.Split(record, fieldSeparator)
		if len(fields) != 5 {
			f.logger.Warn("malformed calendar record", "record", record)
			continue
		}

		title := strings.TrimSpace(fields[0])
		recurring := strings.EqualFold(strings.TrimSpace(fields[3]), "true")
		if recurring && f.excludeRecurring && !f.whitelisted(title) {
			continue
		}

		start, okStart := parseClock(fields[1], window)
		end, okEnd := parseClock(fields[2], window)
		if !okStart || !okEnd {
			f.logger.Warn("unparseable event time", "record", record)
			continue
		}

		events = append(events, domain.CalendarEvent{
			Title:           title,
			Start:           start,
			End:             end,
			DurationMinutes: domain.EventDurationMinutes(start, end),
			CalendarName:    strings.TrimSpace(fields[4]),
		})
	}

	return events
}

func (f *Fetcher) whitelisted(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range f.recurringWhitelist {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}

// parseClock turns an "H:M" field into a timestamp on the window's day.
func parseClock(field string, window domain.TimeWindow) (time.Time, bool) {
	hourStr, minuteStr, ok := strings.Cut(strings.TrimSpace(field), ":")
	if !ok {
		return time.Time{}, false
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}

	day := window.Start
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}
