package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

// Lines used by the title and status bar.
const pagerChrome = 2

type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func (m pagerModel) Init() tea.Cmd { return nil }

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-pagerChrome, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(lipgloss.NewStyle().Width(msg.Width).Render(m.content))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	status := statusBarStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll · q quit", m.viewport.ScrollPercent()*100))
	return strings.Join([]string{titleStyle.Render(m.title), m.viewport.View(), status}, "\n")
}

// ShowPager displays content in a full-screen scrollable view until the user
// quits.
func ShowPager(title, content string) error {
	p := tea.NewProgram(pagerModel{title: title, content: content}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	return nil
}
