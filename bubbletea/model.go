// Package bubbletea implements the Question the Docs terminal UI: a knowledge
// base selector, a question input and a single answer region, driven by a
// qtd.Controller.
package bubbletea

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pinnacledb/qtd"
)

// CompletedMsg carries the outcome of a submission back to the event loop.
type CompletedMsg struct {
	qtd.Completion
}

type focusArea int

const (
	focusSelector focusArea = iota
	focusInput
)

// Model is the root Bubble Tea model. It owns the controller; completions of
// submissions arrive as CompletedMsg and are applied in Update.
type Model struct {
	ctx    context.Context
	ctrl   *qtd.Controller
	logger *slog.Logger

	selector Selector
	input    textinput.Model
	spinner  spinner.Model
	focus    focusArea

	width int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for discarded completions and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithKnowledgeBase preselects kb and starts with the question input focused.
func WithKnowledgeBase(kb qtd.KnowledgeBase) Option {
	return func(m *Model) {
		if !m.ctrl.Select(kb) {
			return
		}
		m.selector = m.selector.Select(kb)
		m.selector.Blur()
		m.input.Focus()
		m.focus = focusInput
	}
}

// New returns a Model driving ctrl. Backend calls inherit ctx.
func New(ctx context.Context, ctrl *qtd.Controller, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = "? "
	ti.CharLimit = 500
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle

	sel := NewSelector()
	sel.Focus()

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		selector: sel,
		input:    ti,
		spinner:  s,
		focus:    focusSelector,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Session returns the controller's current session.
func (m Model) Session() qtd.Session {
	return m.ctrl.Session()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.input.Width = msg.Width - 8
		}
		return m, nil

	case CompletedMsg:
		return m.handleCompleted(msg)

	case spinner.TickMsg:
		if m.ctrl.Session().State != qtd.StatePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.ctrl.Close()
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab:
		return m.toggleFocus()
	}

	if m.focus == focusSelector {
		if msg.Type == tea.KeyEnter {
			return m.toggleFocus()
		}
		var changed bool
		m.selector, changed = m.selector.Update(msg)
		if changed {
			if kb := m.selector.Selected(); kb != "" {
				m.ctrl.Select(kb)
			} else {
				m.ctrl.ClearSelection()
			}
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetQuestion(m.input.Value())
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusSelector {
		m.focus = focusInput
		m.selector.Blur()
		return m, m.input.Focus()
	}
	m.focus = focusSelector
	m.input.Blur()
	m.selector.Focus()
	return m, nil
}

// submit issues a request for the current selection and question. Nothing
// happens when they do not form a valid request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, ok := m.ctrl.Submit(m.ctx)
	if !ok {
		return m, nil
	}
	m.logger.Debug("submit", "seq", sub.Seq, "kb", string(sub.Request.KnowledgeBase))
	return m, tea.Batch(run(sub), m.spinner.Tick)
}

// run performs the backend call off the event loop.
func run(sub *qtd.Submission) tea.Cmd {
	return func() tea.Msg {
		return CompletedMsg{sub.Run()}
	}
}

func (m Model) handleCompleted(msg CompletedMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Complete(msg.Completion) {
		m.logger.Debug("discarded stale completion", "seq", msg.Seq, "latest", m.ctrl.Session().Seq)
		return m, nil
	}

	s := m.ctrl.Session()
	if s.State == qtd.StateFailed {
		m.logger.Warn("question failed", "kb", string(s.KnowledgeBase), "code", s.Err.Code, "err", s.Err.Message)
	}
	// Keep the input in step with the question policy.
	if m.input.Value() != s.Question {
		m.input.SetValue(s.Question)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Question the Docs"))
	b.WriteString("\n\n")
	b.WriteString(m.selector.View())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if answer := RenderAnswer(m.ctrl.Session(), m.spinner.View()); answer != "" {
		b.WriteString(answer)
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("tab: switch focus • ↑/↓: choose docs • enter: ask • esc: quit"))
	b.WriteByte('\n')
	return b.String()
}
