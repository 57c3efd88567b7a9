package maccal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekyeom/dayrecap/internal/domain"
)

func fixedRunner(out string, err error) scriptRunner {
	return func(ctx context.Context, script string) (string, error) {
		return out, err
	}
}

func newTestFetcher(out string, err error, excludeRecurring bool, whitelist []string) *Fetcher {
	f := NewFetcher(excludeRecurring, whitelist, nil)
	f.run = fixedRunner(out, err)
	return f
}

func TestFetchEventsParsesAndSorts(t *testing.T) {
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	out := strings.Join([]string{
		"오후 리뷰|||15:0|||15:45|||false|||업무###",
		"스탠드업|||9:30|||9:45|||false|||업무###",
	}, "")

	f := newTestFetcher(out, nil, true, nil)
	events, err := f.FetchEvents(context.Background(), window, []string{"업무"})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "스탠드업", events[0].Title)
	assert.Equal(t, 15, events[0].DurationMinutes)
	assert.Equal(t, 9, events[0].Start.Hour())
	assert.Equal(t, 30, events[0].Start.Minute())
	assert.Equal(t, "오후 리뷰", events[1].Title)
	assert.Equal(t, 45, events[1].DurationMinutes)
	assert.Equal(t, "업무", events[1].CalendarName)
}

func TestFetchEventsRecurringFilter(t *testing.T) {
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	out := strings.Join([]string{
		"주간 스프린트 회의|||10:0|||11:0|||true|||업무###",
		"데일리 잡담|||13:0|||13:30|||true|||업무###",
	}, "")

	f := newTestFetcher(out, nil, true, []string{"스프린트"})
	events, err := f.FetchEvents(context.Background(), window, []string{"업무"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "주간 스프린트 회의", events[0].Title)

	// Recurring events pass through when the filter is off.
	f = newTestFetcher(out, nil, false, nil)
	events, err = f.FetchEvents(context.Background(), window, []string{"업무"})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFetchEventsZeroLengthGetsFloor(t *testing.T) {
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	f := newTestFetcher("알림|||9:0|||9:0|||false|||개인###", nil, true, nil)

	events, err := f.FetchEvents(context.Background(), window, []string{"개인"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].DurationMinutes)
}

func TestFetchEventsSkipsMalformedRecords(t *testing.T) {
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	out := "broken record###회의|||14:0|||bad-time|||false|||업무###정상|||10:0|||10:30|||false|||업무###"

	f := newTestFetcher(out, nil, true, nil)
	events, err := f.FetchEvents(context.Background(), window, []string{"업무"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "정상", events[0].Title)
}

func TestFetchEventsNoCalendarsSelected(t *testing.T) {
	f := newTestFetcher("", nil, true, nil)
	events, err := f.FetchEvents(context.Background(), domain.NewTimeWindow(time.Now()), nil)
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestFetchEventsScriptFailure(t *testing.T) {
	f := newTestFetcher("", errors.New("osascript: command not found"), true, nil)
	_, err := f.FetchEvents(context.Background(), domain.NewTimeWindow(time.Now()), []string{"업무"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch calendar events")
}

func TestListCalendarsSplitsNames(t *testing.T) {
	f := newTestFetcher("업무, 개인, Birthdays\n", nil, true, nil)
	names, err := f.ListCalendars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"업무", "개인", "Birthdays"}, names)
}

func TestBuildEventScriptQuotesCalendarNames(t *testing.T) {
	window := domain.NewTimeWindow(time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local))
	script := buildEventScript(window, []string{"업무"})

	assert.Contains(t, script, `calendar "업무"`)
	assert.Contains(t, script, "allday event is false")
	assert.Contains(t, script, "set year of dayStart to 2025")
	assert.Contains(t, script, "set day of dayEnd to 3")
}
