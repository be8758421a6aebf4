package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type stepDoneMsg struct{}

type spinnerModel struct {
	label     string
	spinner   spinner.Model
	done      bool
	cancelled bool
}

func newSpinnerModel(label string) spinnerModel {
	return spinnerModel{
		label:   label,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), labelStyle.Render(m.label))
}

// Spinner shows an inline spinner (no alt screen) while a step runs.
// Ctrl+C inside the spinner calls cancel so the in-flight request aborts.
type Spinner struct {
	out    io.Writer
	cancel context.CancelFunc
}

// NewSpinner renders to out. cancel may be nil.
func NewSpinner(out io.Writer, cancel context.CancelFunc) *Spinner {
	return &Spinner{out: out, cancel: cancel}
}

// RunStep runs fn while the spinner is shown and returns once fn has
// finished, even if the spinner could not be drawn.
func (s *Spinner) RunStep(label string, fn func()) {
	p := tea.NewProgram(newSpinnerModel(label), tea.WithOutput(s.out))

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		p.Send(stepDoneMsg{})
	}()

	final, err := p.Run()
	if err == nil {
		if m, ok := final.(spinnerModel); ok && m.cancelled && s.cancel != nil {
			s.cancel()
		}
	}
	<-done
}
