// Package tui holds the interactive list selector used for enum answers.
package tui

import (
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user leaves the selector without choosing.
var ErrAborted = errors.New("selection aborted")

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	chosenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type model struct {
	label    string
	choices  []string
	cursor   int
	selected bool
	aborted  bool
}

func newModel(label string, choices []string, def string) model {
	m := model{label: label, choices: choices}
	for i, c := range choices {
		if c == def {
			m.cursor = i
			break
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = true
			return m, tea.Quit
		case "esc", "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	if m.selected {
		b.WriteString(" " + chosenStyle.Render(m.choices[m.cursor]) + "\n")
		return b.String()
	}
	b.WriteString("\n\n")
	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString(cursorStyle.Render("> "+choice) + "\n")
			continue
		}
		b.WriteString("  " + choice + "\n")
	}
	return b.String()
}

// Select shows choices under label with the cursor on def and returns the
// chosen value. Keys are read from in and the list is drawn to out.
func Select(in io.Reader, out io.Writer, label string, choices []string, def string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("nothing to select")
	}
	p := tea.NewProgram(newModel(label, choices, def), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return result(final.(model))
}

func result(m model) (string, error) {
	if m.aborted || !m.selected {
		return "", ErrAborted
	}
	return m.choices[m.cursor], nil
}
