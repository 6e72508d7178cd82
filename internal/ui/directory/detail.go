package directory

import (
	"fmt"
	"strings"

	"intervue/internal/timer"
	"intervue/pkg/scoring"
)

// RenderDetail formats a candidate's interview record as plain text.
func RenderDetail(d scoring.CandidateDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s>", d.Candidate.Name, d.Candidate.Email)
	if d.Candidate.Phone != "" {
		fmt.Fprintf(&b, " %s", d.Candidate.Phone)
	}
	b.WriteString("\n")
	iv := d.Interview
	fmt.Fprintf(&b, "Status: %s | Score: %s/10 (%s) | Completed: %s\n",
		iv.Status, scoring.FormatScore(iv.FinalScore), scoring.ScoreLabel(iv.FinalScore), formatCompleted(iv.CompletedAt))
	for _, q := range iv.Questions {
		fmt.Fprintf(&b, "\nQ%d [%s] %s\n", q.Number, q.Difficulty, q.Text)
		answer := "(no answer)"
		if q.Answer != nil && strings.TrimSpace(*q.Answer) != "" {
			answer = *q.Answer
		}
		fmt.Fprintf(&b, "  Answer: %s\n", answer)
		score, taken := "-", "-"
		if q.Score != nil {
			score = scoring.FormatScore(*q.Score) + "/10"
		}
		if q.TimeTaken != nil {
			taken = timer.Format(*q.TimeTaken)
		}
		fmt.Fprintf(&b, "  Score: %s | Time: %s\n", score, taken)
	}
	if iv.Summary != nil && *iv.Summary != "" {
		fmt.Fprintf(&b, "\nSummary: %s\n", *iv.Summary)
	}
	return b.String()
}
