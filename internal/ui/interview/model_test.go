package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"intervue/internal/session"
	"intervue/internal/testutil"
	"intervue/internal/timer"
	"intervue/pkg/scoring"
)

type stubBackend struct {
	submits []scoring.SubmitRequest
}

func (b *stubBackend) Begin(context.Context, scoring.Candidate) (scoring.BeginResponse, error) {
	return scoring.BeginResponse{InterviewID: 1, Question: testutil.QuestionFor(1, 1)}, nil
}

func (b *stubBackend) Submit(_ context.Context, id int, text string, taken int) (scoring.SubmitResult, error) {
	b.submits = append(b.submits, scoring.SubmitRequest{QuestionID: id, Answer: text, TimeTaken: taken})
	return scoring.SubmitResult{}, errors.New("unreachable")
}

func (b *stubBackend) Resume(context.Context, int) (scoring.ResumeResponse, error) {
	return scoring.ResumeResponse{Question: testutil.QuestionFor(3, 3)}, nil
}

func (b *stubBackend) CheckUnfinished(context.Context) (scoring.Unfinished, error) {
	return scoring.Unfinished{}, nil
}

func newTestModel(t *testing.T, opts Options) (Model, *stubBackend) {
	t.Helper()
	backend := &stubBackend{}
	exec := session.NewExecutor(testutil.Context(t, 0), backend, session.ExecutorOptions{})
	opts.NoColor = true
	return NewModel(exec, opts), backend
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

// TestEnterBeginsInterview verifies the start key issues begin and renders the first question.
func TestEnterBeginsInterview(t *testing.T) {
	m, _ := newTestModel(t, Options{Candidate: scoring.Candidate{Name: "Ada", Email: "ada@example.com"}})
	if !strings.Contains(m.View(), "Checking for an unfinished interview") {
		t.Fatalf("expected check in progress view, got %q", m.View())
	}
	m, _ = update(t, m, session.UnfinishedCheckedMsg{})
	if !strings.Contains(m.View(), "Press enter to begin") || !strings.Contains(m.View(), "Ada") {
		t.Fatalf("expected start prompt, got %q", m.View())
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.Machine().Loading() {
		t.Fatalf("expected begin in flight")
	}
	m, _ = update(t, m, cmd())
	if m.Machine().State() != session.QuestionActive {
		t.Fatalf("expected question active, got %v", m.Machine().State())
	}
	view := m.View()
	if !strings.Contains(view, "Question 1 of 6") || !strings.Contains(view, "[easy]") || !strings.Contains(view, "0:20") {
		t.Fatalf("unexpected question view %q", view)
	}
}

// TestTypingAndSubmitting verifies keystrokes feed the collector and ctrl+s submits.
func TestTypingAndSubmitting(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = update(t, m, session.UnfinishedCheckedMsg{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Machine().State() != session.QuestionActive {
		t.Fatalf("expected empty submit blocked")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("closures")})
	if got := m.Machine().Collector().Text(); got != "closures" {
		t.Fatalf("expected typed text, got %q", got)
	}
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Machine().State() != session.Submitting || cmd == nil {
		t.Fatalf("expected submitting")
	}
	if !strings.Contains(m.View(), "Submitting") {
		t.Fatalf("expected submitting indicator")
	}
	if m.Machine().Pending().Answer != "closures" {
		t.Fatalf("unexpected pending %+v", m.Machine().Pending())
	}
}

// TestLowTimeAndVoiceUnavailable verifies the countdown and mode line render.
func TestLowTimeAndVoiceUnavailable(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = update(t, m, session.UnfinishedCheckedMsg{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	for i := 0; i < 12; i++ {
		m, _ = update(t, m, timer.TickMsg{Gen: m.Machine().TickGen()})
	}
	if !m.Machine().LowTime() || !strings.Contains(m.View(), "0:08") {
		t.Fatalf("expected low time at 0:08, got %q", m.View())
	}
	if !strings.Contains(m.View(), "voice unavailable") {
		t.Fatalf("expected voice unavailable note")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.Machine().SpeechErr() == nil {
		t.Fatalf("expected voice refusal to surface")
	}
}

// TestAutoStartChoices verifies command-line start choices.
func TestAutoStartChoices(t *testing.T) {
	ada := scoring.Candidate{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
	m, _ := newTestModel(t, Options{Start: StartResume})
	m, _ = update(t, m, session.UnfinishedCheckedMsg{Unfinished: scoring.Unfinished{HasUnfinished: true, InterviewID: 8, CurrentQuestion: 3}})
	_, start := m.autoStart()
	if msg, ok := start().(session.ResumeRequested); !ok || msg.InterviewID != 8 {
		t.Fatalf("expected resume request, got %#v", msg)
	}

	m, _ = newTestModel(t, Options{Start: StartResume, Candidate: ada})
	m, _ = update(t, m, session.UnfinishedCheckedMsg{})
	_, start = m.autoStart()
	if _, ok := start().(session.BeginRequested); !ok {
		t.Fatalf("expected begin when nothing to resume")
	}

	m, _ = newTestModel(t, Options{})
	m, _ = update(t, m, session.UnfinishedCheckedMsg{Unfinished: scoring.Unfinished{HasUnfinished: true, InterviewID: 8, CurrentQuestion: 3}})
	if _, start := m.autoStart(); start != nil {
		t.Fatalf("expected ask mode to wait")
	}
	if !strings.Contains(m.View(), "Welcome back") || !strings.Contains(m.View(), "question 3") {
		t.Fatalf("expected welcome back prompt, got %q", m.View())
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m, _ = update(t, m, cmd())
	if m.Machine().State() != session.QuestionActive || m.Machine().Question().Number != 3 {
		t.Fatalf("expected resumed question 3")
	}
}

// TestResumeWithoutUnfinishedOrCandidateQuits verifies the program stops instead of
// sending a begin that can never validate.
func TestResumeWithoutUnfinishedOrCandidateQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{Start: StartResume})
	m, cmd := update(t, m, session.UnfinishedCheckedMsg{})
	if !errors.Is(m.Err(), ErrNothingToResume) {
		t.Fatalf("expected ErrNothingToResume, got %v", m.Err())
	}
	if m.Machine().Loading() || m.Machine().State() != session.NotStarted {
		t.Fatalf("expected no begin issued")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	for _, msg := range drain(cmd) {
		if _, ok := msg.(session.BeginRequested); ok {
			t.Fatalf("unexpected begin request")
		}
	}
}

// drain runs a command and flattens any batch into its messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, drain(c)...)
	}
	return out
}

// TestRulesListsLimits verifies the rules panel shows each difficulty's limit.
func TestRulesListsLimits(t *testing.T) {
	rules := Rules()
	for _, want := range []string{"easy", "0:20", "medium", "1:00", "hard", "2:00"} {
		if !strings.Contains(rules, want) {
			t.Fatalf("expected %q in rules %q", want, rules)
		}
	}
}
