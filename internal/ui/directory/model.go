// Package directory is the interviewer's live candidate list.
package directory

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervue/internal/notify"
	"intervue/pkg/scoring"
)

// Source fetches directory data.
type Source interface {
	Candidates(ctx context.Context) ([]scoring.CandidateSummary, error)
	CandidateDetail(ctx context.Context, id int) (scoring.CandidateDetail, error)
}

// Options configures the directory model.
type Options struct {
	NoColor bool
}

// Model renders the candidate list and re-fetches it on notifications.
type Model struct {
	ctx        context.Context
	source     Source
	events     <-chan notify.Event
	table      table.Model
	candidates []scoring.CandidateSummary
	detail     *scoring.CandidateDetail
	err        error
	loading    bool
	fetches    int
	updatedAt  time.Time
	noColor    bool
}

// NewModel builds the directory model. events may be nil.
func NewModel(ctx context.Context, source Source, events <-chan notify.Event, opts Options) Model {
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithWidth(100),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{ctx: ctx, source: source, events: events, table: t, loading: true, noColor: opts.NoColor}
}

type listLoadedMsg struct {
	rows []scoring.CandidateSummary
	err  error
}

type detailLoadedMsg struct {
	detail scoring.CandidateDetail
	err    error
}

// NotifiedMsg wraps a candidates-updated notification.
type NotifiedMsg struct {
	Event notify.Event
}

// Init loads the list and waits for notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), waitForEvent(m.events))
}

// Update handles keys, loads and notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height/2, 3))
		m.table.SetColumns(columnsForWidth(msg.Width))
		return m, nil
	case listLoadedMsg:
		m.loading = false
		m.fetches++
		m.err = msg.err
		if msg.err == nil {
			m.candidates = msg.rows
			m.table.SetRows(rowsFor(msg.rows))
			m.updatedAt = time.Now()
		}
		return m, nil
	case detailLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			detail := msg.detail
			m.detail = &detail
		}
		return m, nil
	case NotifiedMsg:
		m.loading = true
		return m, tea.Batch(m.fetch(), waitForEvent(m.events))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetch()
		case "esc":
			m.detail = nil
			return m, nil
		case "enter":
			if c, ok := m.selected(); ok {
				return m, m.fetchDetail(c.ID)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the list and any open detail.
func (m Model) View() string {
	status := "Candidates: " + strconv.Itoa(len(m.candidates))
	if m.loading {
		status += " | refreshing..."
	} else if !m.updatedAt.IsZero() {
		status += " | updated " + m.updatedAt.Format("15:04:05")
	}
	parts := []string{stylize(status, m.noColor, lipgloss.Color("33")), m.table.View()}
	if m.err != nil {
		parts = append(parts, stylize("Error: "+m.err.Error(), m.noColor, lipgloss.Color("203")))
	}
	if m.detail != nil {
		parts = append(parts, RenderDetail(*m.detail))
	}
	parts = append(parts, stylize("up/down select | enter details | esc close | r refresh | q quit", m.noColor, lipgloss.Color("242")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Candidates returns the rows currently shown.
func (m Model) Candidates() []scoring.CandidateSummary {
	return m.candidates
}

// Fetches counts completed list loads.
func (m Model) Fetches() int {
	return m.fetches
}

func (m Model) selected() (scoring.CandidateSummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.candidates) {
		return scoring.CandidateSummary{}, false
	}
	return m.candidates[i], true
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.source.Candidates(m.ctx)
		return listLoadedMsg{rows: rows, err: err}
	}
}

func (m Model) fetchDetail(id int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.source.CandidateDetail(m.ctx, id)
		return detailLoadedMsg{detail: detail, err: err}
	}
}

// waitForEvent blocks until a notification is available.
func waitForEvent(events <-chan notify.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return NotifiedMsg{Event: event}
	}
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
