package session

import (
	"intervue/internal/answer"
	"intervue/pkg/scoring"
)

// UnfinishedCheckedMsg resolves the startup check for an interrupted interview.
// The machine accepts no begin or resume intent until it arrives.
type UnfinishedCheckedMsg struct {
	Unfinished scoring.Unfinished
	Err        error
}

// BeginRequested asks to start a fresh interview for a candidate.
type BeginRequested struct {
	Candidate scoring.Candidate
}

// ResumeRequested asks to reattach to an interrupted interview.
type ResumeRequested struct {
	InterviewID int
}

// BeginResultMsg carries the outcome of a begin call.
type BeginResultMsg struct {
	Response scoring.BeginResponse
	Err      error
}

// ResumeResultMsg carries the outcome of a resume call.
type ResumeResultMsg struct {
	InterviewID int
	Response    scoring.ResumeResponse
	Err         error
}

// SubmitRequested is a manual submission by the candidate.
type SubmitRequested struct{}

// SubmitResultMsg carries the outcome of a submit call.
type SubmitResultMsg struct {
	Request scoring.SubmitRequest
	Result  scoring.SubmitResult
	Err     error
}

// TextChanged replaces the typed answer buffer.
type TextChanged struct {
	Text string
}

// ModeRequested switches the active input mode.
type ModeRequested struct {
	Mode answer.Mode
}

// RecordToggled starts recording when idle and stops it when recording.
type RecordToggled struct{}

// SpeechStartedMsg reports whether the recognizer for capture ID started.
type SpeechStartedMsg struct {
	ID  int
	Err error
}
