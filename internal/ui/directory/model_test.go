package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"intervue/internal/notify"
	"intervue/internal/testutil"
	"intervue/pkg/scoring"
)

type stubSource struct {
	rows    []scoring.CandidateSummary
	detail  scoring.CandidateDetail
	listErr error
	lists   int
}

func (s *stubSource) Candidates(context.Context) ([]scoring.CandidateSummary, error) {
	s.lists++
	return s.rows, s.listErr
}

func (s *stubSource) CandidateDetail(_ context.Context, id int) (scoring.CandidateDetail, error) {
	if id != s.detail.Candidate.ID {
		return scoring.CandidateDetail{}, errors.New("http 404: candidate not found")
	}
	return s.detail, nil
}

func strPtr(value string) *string { return &value }

func sampleRows() []scoring.CandidateSummary {
	return []scoring.CandidateSummary{
		{ID: 1, Name: "Ada", Email: "ada@example.com", FinalScore: 7.5, Status: "completed", CompletedAt: strPtr("2026-10-01T10:30:00")},
		{ID: 2, Name: "Bob", Email: "bob@example.com", FinalScore: 4, Status: "in_progress"},
	}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

// TestLoadRendersRowsInServiceOrder verifies rows keep the service order with labels.
func TestLoadRendersRowsInServiceOrder(t *testing.T) {
	source := &stubSource{rows: sampleRows()}
	m := NewModel(testutil.Context(t, 0), source, nil, Options{NoColor: true})

	m, _ = step(t, m, m.fetch()())
	view := m.View()
	if strings.Index(view, "Ada") > strings.Index(view, "Bob") {
		t.Fatalf("expected service order, got %q", view)
	}
	for _, want := range []string{"7.5/10", "excellent", "needs improvement", "not completed", "2026-10-01 10:30", "Candidates: 2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got %q", want, view)
		}
	}
}

// TestNotificationRefetches verifies a notification triggers a new load and keeps waiting.
func TestNotificationRefetches(t *testing.T) {
	source := &stubSource{rows: sampleRows()[:1]}
	events := make(chan notify.Event, 1)
	m := NewModel(testutil.Context(t, 0), source, events, Options{NoColor: true})
	m, _ = step(t, m, m.fetch()())

	events <- notify.Updated()
	msg := waitForEvent(events)()
	if _, ok := msg.(NotifiedMsg); !ok {
		t.Fatalf("expected notification msg, got %T", msg)
	}
	source.rows = sampleRows()
	m, cmd := step(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected refetch command")
	}
	m, _ = step(t, m, m.fetch()())
	if len(m.Candidates()) != 2 || m.Fetches() != 2 {
		t.Fatalf("expected two rows after two fetches, got %d rows %d fetches", len(m.Candidates()), m.Fetches())
	}
}

// TestClosedEventsStopsWaiting verifies a closed channel ends the wait loop.
func TestClosedEventsStopsWaiting(t *testing.T) {
	events := make(chan notify.Event)
	close(events)
	if msg := waitForEvent(events)(); msg != nil {
		t.Fatalf("expected nil msg, got %T", msg)
	}
	if waitForEvent(nil) != nil {
		t.Fatalf("expected no command without events")
	}
}

// TestEnterShowsDetail verifies the selected candidate's record is fetched and rendered.
func TestEnterShowsDetail(t *testing.T) {
	source := &stubSource{rows: sampleRows()}
	source.detail = scoring.CandidateDetail{
		Candidate: scoring.Candidate{ID: 1, Name: "Ada", Email: "ada@example.com"},
		Interview: scoring.InterviewRecord{
			Status:     "completed",
			FinalScore: 7.5,
			Summary:    strPtr("Strong answers."),
			Questions: []scoring.QuestionRecord{
				{Number: 1, Text: "What is a goroutine?", Difficulty: scoring.DifficultyEasy, Answer: strPtr("A lightweight thread.")},
			},
		},
	}
	m := NewModel(testutil.Context(t, 0), source, nil, Options{NoColor: true})
	m, _ = step(t, m, m.fetch()())

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected detail command")
	}
	m, _ = step(t, m, cmd())
	view := m.View()
	for _, want := range []string{"What is a goroutine?", "A lightweight thread.", "Summary: Strong answers.", "Score: -"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got %q", want, view)
		}
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Strong answers.") {
		t.Fatalf("expected detail closed")
	}
}

// TestLoadErrorKeepsRows verifies a failed refresh shows the error and keeps prior rows.
func TestLoadErrorKeepsRows(t *testing.T) {
	source := &stubSource{rows: sampleRows()}
	m := NewModel(testutil.Context(t, 0), source, nil, Options{NoColor: true})
	m, _ = step(t, m, m.fetch()())

	source.listErr = errors.New("http 503: unavailable")
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m, _ = step(t, m, cmd())
	if len(m.Candidates()) != 2 {
		t.Fatalf("expected rows kept, got %d", len(m.Candidates()))
	}
	if !strings.Contains(m.View(), "http 503: unavailable") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
}

// TestRenderDetailWithoutAnswers verifies unanswered records render placeholders.
func TestRenderDetailWithoutAnswers(t *testing.T) {
	taken := 65
	score := 6.0
	out := RenderDetail(scoring.CandidateDetail{
		Candidate: scoring.Candidate{Name: "Bob", Email: "bob@example.com", Phone: "555-0100"},
		Interview: scoring.InterviewRecord{
			Status: "in_progress",
			Questions: []scoring.QuestionRecord{
				{Number: 3, Text: "Explain channels.", Difficulty: scoring.DifficultyMedium, Score: &score, TimeTaken: &taken},
			},
		},
	})
	for _, want := range []string{"555-0100", "(no answer)", "Score: 6/10 | Time: 1:05", "not completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
