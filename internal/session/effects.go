package session

import (
	"intervue/pkg/scoring"
)

// Effect is work the machine asks its executor to perform.
// Effects are plain data so transitions can be asserted without running them.
type Effect interface {
	effect()
}

// CheckUnfinished asks whether an interrupted interview exists.
type CheckUnfinished struct{}

// Begin starts a fresh interview.
type Begin struct {
	Candidate scoring.Candidate
}

// Resume reattaches to an interrupted interview.
type Resume struct {
	InterviewID int
}

// Submit sends one answer to the scoring service.
type Submit struct {
	Request scoring.SubmitRequest
}

// ScheduleTick delivers the next countdown tick for run Gen.
type ScheduleTick struct {
	Gen int
}

// StartSpeech opens a recognizer stream for capture ID.
type StartSpeech struct {
	ID int
}

// StopSpeech closes the recognizer stream for capture ID.
type StopSpeech struct {
	ID int
}

// ListenSpeech waits for the next recognizer event for capture ID.
type ListenSpeech struct {
	ID int
}

// ScheduleRecordingTick advances the recording-elapsed counter for capture ID.
type ScheduleRecordingTick struct {
	ID int
}

func (CheckUnfinished) effect()       {}
func (Begin) effect()                 {}
func (Resume) effect()                {}
func (Submit) effect()                {}
func (ScheduleTick) effect()          {}
func (StartSpeech) effect()           {}
func (StopSpeech) effect()            {}
func (ListenSpeech) effect()          {}
func (ScheduleRecordingTick) effect() {}
