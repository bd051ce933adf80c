package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/routepatch/model"
	"github.com/sokinpui/routepatch/routepatch"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---
type Model struct {
	app     *routepatch.App
	ctx     context.Context
	spinner spinner.Model
	state   state
	summary summaryMsg
	err     error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(ctx context.Context, app *routepatch.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:     app,
		ctx:     ctx,
		spinner: s,
		state:   stateProcessing,
	}
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s Patching %s...", m.spinner.View(), m.app.Path())
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Path != "" {
		b.WriteString(headerStyle.Render(m.summary.Path))
		b.WriteString("\n")
	}

	for _, s := range m.summary.Steps {
		if s.Found {
			b.WriteString(successStyle.Render(fmt.Sprintf("  ✓ %s → %s (%d)", s.Target, s.Replacement, s.Count)))
		} else {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  · %s not found", s.Target)))
		}
		b.WriteString("\n")
	}
	if m.summary.Diff != "" {
		b.WriteString(m.summary.Diff)
	}

	switch {
	case m.summary.Written:
		b.WriteString(successStyle.Render("SUCCESS: File updated"))
	case m.summary.Message != "":
		b.WriteString(headerStyle.Render(m.summary.Message))
	default:
		b.WriteString(warningStyle.Render("NO CHANGE: Content appeared already up to date or strings not found."))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute(m.ctx)
	if err != nil {
		var detailed *routepatch.DetailedError
		if errors.As(err, &detailed) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}
