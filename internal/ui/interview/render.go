package interview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"intervue/internal/answer"
	"intervue/internal/session"
	"intervue/internal/timer"
	"intervue/pkg/scoring"
)

// View renders the current phase.
func (m Model) View() string {
	var body string
	switch m.machine.State() {
	case session.NotStarted:
		body = m.viewStart()
	case session.QuestionActive, session.Submitting:
		body = m.viewQuestion()
	case session.Complete:
		body = m.viewComplete()
	}
	parts := []string{m.styles.header.Render(header(m.machine)), body}
	if err := m.machine.Err(); err != nil {
		parts = append(parts, m.styles.err.Render("Error: "+err.Error()))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func header(machine session.Machine) string {
	if q := machine.Question(); q != nil {
		return fmt.Sprintf("Interview | Question %d of %d", q.Number, scoring.TotalQuestions)
	}
	if machine.State() == session.Complete {
		return "Interview | Complete"
	}
	return "Interview"
}

// Rules describes the time limit for each difficulty.
func Rules() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d questions, two of each difficulty:\n", scoring.TotalQuestions))
	for _, d := range []scoring.Difficulty{scoring.DifficultyEasy, scoring.DifficultyMedium, scoring.DifficultyHard} {
		b.WriteString(fmt.Sprintf("  %-6s %s per question\n", d, timer.Format(scoring.CanonicalTimeLimit(d))))
	}
	b.WriteString("Unanswered questions are submitted when time runs out.")
	return b.String()
}

func (m Model) viewStart() string {
	if !m.machine.Checked() {
		return m.spinner.View() + " Checking for an unfinished interview..."
	}
	if m.machine.Loading() {
		return m.spinner.View() + " Starting..."
	}
	lines := []string{m.styles.panel.Render(Rules())}
	if u := m.machine.Unfinished(); u.HasUnfinished {
		who := "a candidate"
		if u.Candidate != nil && u.Candidate.Name != "" {
			who = u.Candidate.Name
		}
		line := fmt.Sprintf("Welcome back. An interview for %s stopped at question %d.", who, u.CurrentQuestion)
		if started := u.StartedTime(); !started.IsZero() {
			line += " Started " + started.Format("Jan 2 15:04") + "."
		}
		lines = append(lines, line, m.styles.muted.Render("r resume | n start new"))
		return strings.Join(lines, "\n")
	}
	if m.candidate.Name != "" {
		lines = append(lines, "Candidate: "+m.candidate.Name+" <"+m.candidate.Email+">")
	}
	lines = append(lines, m.styles.muted.Render("Press enter to begin."))
	return strings.Join(lines, "\n")
}

func (m Model) viewQuestion() string {
	q := m.machine.Question()
	if q == nil {
		return ""
	}
	clock := m.styles.timer.Render("Time left " + timer.Format(m.machine.Remaining()))
	if m.machine.LowTime() {
		clock = m.styles.low.Render("Time left " + timer.Format(m.machine.Remaining()))
	}
	lines := []string{
		m.styles.difficulty(q.Difficulty) + " " + clock,
		m.styles.question.Render(q.Text),
		"",
		m.modeLine(),
	}
	collector := m.machine.Collector()
	if collector.Mode() == answer.ModeVoice {
		transcript := collector.Transcript()
		if transcript == "" {
			transcript = m.styles.muted.Render("(no speech captured yet)")
		}
		lines = append(lines, m.styles.panel.Render(transcript))
	} else {
		lines = append(lines, m.editor.View())
	}
	if m.machine.State() == session.Submitting {
		lines = append(lines, m.spinner.View()+" Submitting...")
	} else if !m.machine.CanSubmit() {
		lines = append(lines, m.styles.muted.Render("Write an answer to submit."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) modeLine() string {
	collector := m.machine.Collector()
	capture := m.machine.Capture()
	line := "Input: " + string(collector.Mode())
	switch {
	case !collector.VoiceAvailable():
		line += m.styles.muted.Render(" (voice unavailable)")
	case capture.Recording():
		line += m.styles.low.Render(" ● recording " + timer.Format(capture.Elapsed()))
	}
	if err := m.machine.SpeechErr(); err != nil {
		line += " " + m.styles.muted.Render(err.Error())
	}
	return line
}

func (m Model) viewComplete() string {
	lines := []string{
		m.styles.score.Render(fmt.Sprintf("Final score: %s / 10", scoring.FormatScore(m.machine.FinalScore()))),
	}
	if summary := m.machine.Summary(); summary != "" {
		lines = append(lines, m.styles.panel.Render(summary))
	}
	for _, a := range m.machine.Answered() {
		lines = append(lines, fmt.Sprintf("  Q%d %-6s %s of %s", a.Question.Number, a.Question.Difficulty,
			timer.Format(a.TimeTaken), timer.Format(a.Question.TimeLimit)))
	}
	lines = append(lines, m.styles.muted.Render("Press enter to exit."))
	return strings.Join(lines, "\n")
}
