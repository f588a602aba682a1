// Package tui implements a full-screen picker for the setup method.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type (
	// Option is one entry of the picker. Key is what the picker returns when it is chosen.
	Option struct {
		Key   string
		Label string
	}

	picker struct {
		help     help.Model
		title    string
		options  []Option
		chosen   string
		index    int
		quitting bool
	}

	keyMap struct{}
)

var (
	keys = struct {
		up     key.Binding
		down   key.Binding
		choose key.Binding
		help   key.Binding
		quit   key.Binding
	}{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "choose"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}

	highlightedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.choose, keys.help, keys.quit}
}

func (keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.up, keys.down, keys.choose},
		{keys.help, keys.quit},
	}
}

func newPicker(title string, options []Option) picker {
	return picker{
		help:    help.New(),
		title:   title,
		options: options,
	}
}

func (m picker) Init() tea.Cmd {
	return nil
}

func (m picker) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		line := fmt.Sprintf("%s. %s", opt.Key, opt.Label)

		if i == m.index {
			b.WriteString(highlightedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}

		b.WriteRune('\n')
	}

	b.WriteRune('\n')
	b.WriteString(m.help.View(keyMap{}))
	b.WriteRune('\n')

	return b.String()
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitting = true

			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.index > 0 {
				m.index -= 1
			}
		case key.Matches(msg, keys.down):
			if m.index < len(m.options)-1 {
				m.index += 1
			}
		case key.Matches(msg, keys.choose):
			m.chosen = m.options[m.index].Key
			m.quitting = true

			return m, tea.Quit
		case key.Matches(msg, keys.help):
			m.help.ShowAll = !m.help.ShowAll
		default:
		}
	}

	return m, nil
}

// Pick runs the picker on in/out and returns the Key of the chosen option,
// or "" when the user cancelled.
func Pick(ctx context.Context, in io.Reader, out io.Writer, title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("picker %q has no options", title)
	}

	p := tea.NewProgram(
		newPicker(title, options),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run picker: %w", err)
	}

	m, ok := final.(picker)
	if !ok {
		return "", fmt.Errorf("picker returned unexpected model %T", final)
	}

	return m.chosen, nil
}
