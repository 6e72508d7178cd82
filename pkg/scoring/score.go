package scoring

import "strconv"

// ScoreLabel buckets a score out of ten.
func ScoreLabel(score float64) string {
	switch {
	case score >= 7:
		return "excellent"
	case score >= 5:
		return "good"
	default:
		return "needs improvement"
	}
}

// FormatScore renders a score without a trailing ".0".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
