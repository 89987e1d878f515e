// Package spinner shows a terminal spinner with elapsed time while a
// blocking memuc operation runs.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Enabled reports whether out is a terminal worth drawing a spinner on.
func Enabled(out *os.File) bool {
	return out != nil && term.IsTerminal(int(out.Fd()))
}

// Run calls fn while a spinner titled title is drawn on out. If the user
// presses ctrl+c, the context passed to fn is canceled and Run waits for fn
// to return. The spinner line is cleared before Run returns.
func Run(ctx context.Context, out io.Writer, title string, fn func(context.Context) error) error {
	if out == nil {
		out = os.Stderr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	width := 80
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	program := tea.NewProgram(newModel(title, width, time.Now()),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
		program.Send(doneMsg{})
	}()

	final, _ := program.Run()
	if m, ok := final.(model); ok && m.interrupted {
		cancel()
	}
	return <-done
}

// doneMsg tells the model the operation has finished.
type doneMsg struct{}

// model is the bubbletea model for the spinner.
type model struct {
	spinner     spinner.Model
	title       string
	started     time.Time
	width       int
	quitting    bool
	interrupted bool
}

func newModel(title string, width int, started time.Time) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		title:   title,
		started: started,
		width:   width,
	}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case doneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return ""
	}

	elapsed := time.Since(m.started).Truncate(time.Second)
	line := fmt.Sprintf("%s (%s)", m.title, elapsed)

	// Spinner glyph plus a space.
	maxLineWidth := max(m.width-3, 10)
	return m.spinner.View() + " " + truncate(line, maxLineWidth)
}

// truncate shortens a string to fit within maxWidth, marking the cut with
// "...".
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	if len(s) <= maxWidth {
		return s
	}
	return s[:maxWidth-3] + "..."
}
