// Package interview is the full-screen candidate interview.
package interview

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"intervue/internal/answer"
	"intervue/internal/session"
	"intervue/pkg/scoring"
)

// StartChoice decides what happens once the unfinished check resolves.
type StartChoice int

const (
	// StartAsk waits for the candidate to choose.
	StartAsk StartChoice = iota
	// StartNew begins a fresh interview without asking.
	StartNew
	// StartResume resumes an unfinished interview when one exists.
	StartResume
)

// Options configures the interview model.
type Options struct {
	Candidate scoring.Candidate
	Start     StartChoice
	NoColor   bool
}

// Model hosts a session machine in a Bubble Tea program.
type Model struct {
	machine   session.Machine
	exec      *session.Executor
	candidate scoring.Candidate
	start     StartChoice
	editor    textarea.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	styles    styles
	width     int
	shownQID  int
	err       error
}

// NewModel builds the interview model around an executor.
func NewModel(exec *session.Executor, opts Options) Model {
	editor := textarea.New()
	editor.Placeholder = "Type your answer..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetHeight(6)
	editor.Focus()
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return Model{
		machine:   session.New(session.Options{VoiceAvailable: exec.VoiceAvailable()}),
		exec:      exec,
		candidate: opts.Candidate,
		start:     opts.Start,
		editor:    editor,
		spinner:   spin,
		help:      help.New(),
		keys:      defaultKeys(),
		styles:    newStyles(opts.NoColor),
	}
}

// ErrNothingToResume is returned when resuming was requested but the service
// has no unfinished interview and no complete candidate record was given.
var ErrNothingToResume = errors.New("no unfinished interview to resume; pass --name, --email and --phone to start a new one")

// Err reports why the program stopped on its own, if it did.
func (m Model) Err() error {
	return m.err
}

// Machine returns the current session machine.
func (m Model) Machine() session.Machine {
	return m.machine
}

// Init checks for an unfinished interview.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.exec.Batch(m.machine.Init()), textarea.Blink, m.spinner.Tick)
}

// Update routes keys to intents and everything else to the machine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.editor.SetWidth(max(msg.Width-4, 20))
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.onKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case session.UnfinishedCheckedMsg:
		var cmd, start tea.Cmd
		m, cmd = m.apply(msg)
		m, start = m.autoStart()
		return m, tea.Batch(cmd, start)
	}
	return m.apply(msg)
}

func (m Model) apply(msg any) (Model, tea.Cmd) {
	var effects []session.Effect
	m.machine, effects = m.machine.Update(msg)
	if q := m.machine.Question(); q != nil && q.ID != m.shownQID {
		m.shownQID = q.ID
		m.editor.Reset()
	}
	return m, m.exec.Batch(effects)
}

// autoStart applies the start choice made on the command line.
func (m Model) autoStart() (Model, tea.Cmd) {
	if !m.machine.Checked() {
		return m, nil
	}
	u := m.machine.Unfinished()
	switch {
	case m.start == StartResume && u.HasUnfinished:
		return m, send(session.ResumeRequested{InterviewID: u.InterviewID})
	case m.start == StartResume && m.candidate.Validate() != nil:
		m.err = ErrNothingToResume
		m.exec.Close()
		return m, tea.Quit
	case m.start == StartNew, m.start == StartResume:
		return m, send(session.BeginRequested{Candidate: m.candidate})
	}
	return m, nil
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.exec.Close()
		return m, tea.Quit
	}
	switch m.machine.State() {
	case session.NotStarted:
		if !m.machine.Checked() || m.machine.Loading() {
			return m, nil
		}
		u := m.machine.Unfinished()
		switch {
		case u.HasUnfinished && key.Matches(msg, m.keys.Resume):
			return m.apply(session.ResumeRequested{InterviewID: u.InterviewID})
		case u.HasUnfinished && key.Matches(msg, m.keys.New):
			return m.apply(session.BeginRequested{Candidate: m.candidate})
		case !u.HasUnfinished && key.Matches(msg, m.keys.Start):
			return m.apply(session.BeginRequested{Candidate: m.candidate})
		}
		return m, nil
	case session.QuestionActive:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.apply(session.SubmitRequested{})
		case key.Matches(msg, m.keys.Mode):
			next := answer.ModeVoice
			if m.machine.Collector().Mode() == answer.ModeVoice {
				next = answer.ModeText
			}
			return m.apply(session.ModeRequested{Mode: next})
		case key.Matches(msg, m.keys.Record):
			return m.apply(session.RecordToggled{})
		}
		if m.machine.Collector().Mode() != answer.ModeText {
			return m, nil
		}
		var edit, applied tea.Cmd
		m.editor, edit = m.editor.Update(msg)
		m, applied = m.apply(session.TextChanged{Text: m.editor.Value()})
		return m, tea.Batch(edit, applied)
	case session.Complete:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}
