package directory

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"intervue/pkg/scoring"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Selected = styles.Selected.UnsetForeground().UnsetBackground().Bold(true)
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth gives the name and email columns whatever width is left.
func columnsForWidth(width int) []table.Column {
	fixed := 6 + 18 + 12 + 17
	flex := max(width-fixed-12, 24)
	return []table.Column{
		{Title: "Name", Width: flex / 2},
		{Title: "Email", Width: flex - flex/2},
		{Title: "Score", Width: 6},
		{Title: "Rating", Width: 18},
		{Title: "Status", Width: 12},
		{Title: "Completed", Width: 17},
	}
}

// rowsFor converts directory rows in service order.
func rowsFor(candidates []scoring.CandidateSummary) []table.Row {
	rows := make([]table.Row, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, table.Row{
			c.Name,
			c.Email,
			scoring.FormatScore(c.FinalScore) + "/10",
			scoring.ScoreLabel(c.FinalScore),
			c.Status,
			formatCompleted(c.CompletedAt),
		})
	}
	return rows
}

func formatCompleted(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "not completed"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return parsed.Format("2006-01-02 15:04")
		}
	}
	return *value
}
