package interview

import (
	"github.com/charmbracelet/lipgloss"

	"intervue/pkg/scoring"
)

type styles struct {
	noColor  bool
	header   lipgloss.Style
	muted    lipgloss.Style
	question lipgloss.Style
	timer    lipgloss.Style
	low      lipgloss.Style
	err      lipgloss.Style
	score    lipgloss.Style
	panel    lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			noColor: true, header: plain, muted: plain, question: plain, timer: plain,
			low: plain, err: plain, score: plain, panel: plain.Padding(0, 1),
		}
	}
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		question: lipgloss.NewStyle().Bold(true),
		timer:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		low:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		score:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// difficulty renders a difficulty badge.
func (s styles) difficulty(d scoring.Difficulty) string {
	label := string(d)
	if s.noColor {
		return "[" + label + "]"
	}
	color := lipgloss.Color("42")
	switch d {
	case scoring.DifficultyMedium:
		color = lipgloss.Color("214")
	case scoring.DifficultyHard:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color).Render("[" + label + "]")
}
