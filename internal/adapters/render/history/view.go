// Package history renders archived report runs for the terminal.
package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"github.com/jaekyeom/dayrecap/internal/ports"
)

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	date   lipgloss.Style
	detail lipgloss.Style
	path   lipgloss.Style
	empty  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		date:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		path:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:  lipgloss.NewStyle().Faint(true),
	}
}

// Render lists archived runs, newest first.
func Render(records []ports.ReportRecord) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Daily Report History"),
		s.header.Render(fmt.Sprintf("runs: %d", len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No archived reports yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		lines = append(lines, renderRecord(record, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRecord(record ports.ReportRecord, s styles) string {
	summary := fmt.Sprintf("%s • apps %d • meetings %d • tasks %d",
		domain.FormatSeconds(record.TotalSeconds), record.AppCount, record.MeetingCount, record.TaskCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.date.Render(record.Date),
		s.detail.Render(summary),
		s.path.Render(record.Path),
	)
}
