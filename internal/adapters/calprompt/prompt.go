// Package calprompt is the interactive work-calendar picker shown on first
// run, when neither config nor the selection store names any calendars.
package calprompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

var (
	ErrUnexpectedPromptModel = errors.New("unexpected final bubbletea model type")
	ErrPromptAborted         = errors.New("calendar selection aborted")
)

type Prompter struct {
	input  io.Reader
	output io.Writer
}

var _ ports.CalendarPrompter = (*Prompter)(nil)

func NewPrompter() *Prompter {
	return &Prompter{input: os.Stdin, output: os.Stderr}
}

type promptStyles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
}

func newPromptStyles() promptStyles {
	return promptStyles{
		title:    lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		help:     lipgloss.NewStyle().Faint(true),
	}
}

type promptModel struct {
	available []string
	checked   map[int]bool
	cursor    int
	styles    promptStyles
	confirmed bool
	aborted   bool
}

func newPromptModel(available []string) promptModel {
	return promptModel{
		available: available,
		checked:   make(map[int]bool),
		styles:    newPromptStyles(),
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.available)-1 {
			m.cursor++
		}
	case " ":
		m.checked[m.cursor] = !m.checked[m.cursor]
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

func (m promptModel) View() string {
	if m.confirmed || m.aborted {
		return ""
	}

	view := m.styles.title.Render("업무 캘린더를 선택하세요") + "\n\n"
	for i, name := range m.available {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
		}

		mark := "[ ]"
		label := name
		if m.checked[i] {
			mark = "[x]"
			label = m.styles.selected.Render(name)
		}

		view += fmt.Sprintf("%s%s %s\n", cursor, mark, label)
	}
	view += "\n" + m.styles.help.Render("space: 선택, enter: 확정, q: 취소") + "\n"

	return view
}

func (m promptModel) selection() []string {
	var names []string
	for i, name := range m.available {
		if m.checked[i] {
			names = append(names, name)
		}
	}

	return names
}

// SelectCalendars runs the picker and returns the checked calendar names.
func (p *Prompter) SelectCalendars(ctx context.Context, available []string) ([]string, error) {
	if len(available) == 0 {
		return nil, nil
	}

	program := tea.NewProgram(
		newPromptModel(available),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithContext(ctx),
	)

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("run calendar prompt: %w", err)
	}

	final, ok := finalModel.(promptModel)
	if !ok {
		return nil, ErrUnexpectedPromptModel
	}
	if final.aborted {
		return nil, ErrPromptAborted
	}

	return final.selection(), nil
}
