package session

import (
	"intervue/internal/answer"
	"intervue/internal/speech"
	"intervue/internal/timer"
	"intervue/pkg/scoring"
)

// State is the lifecycle phase of an interview session.
type State int

const (
	// NotStarted is the initial state before begin or resume succeeds.
	NotStarted State = iota
	// QuestionActive means a question is shown and its countdown runs.
	QuestionActive
	// Submitting means one answer is in flight and the guard is held.
	Submitting
	// Complete is terminal.
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case QuestionActive:
		return "question_active"
	case Submitting:
		return "submitting"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Trigger records what caused a submission.
type Trigger string

const (
	// TriggerUser is a manual submission.
	TriggerUser Trigger = "user"
	// TriggerExpiry is a countdown expiry.
	TriggerExpiry Trigger = "expiry"
)

// Answered is one submitted question with its accepted answer.
type Answered struct {
	Question  scoring.Question
	Answer    answer.Answer
	TimeTaken int
	Trigger   Trigger
}

// Options configures a new machine.
type Options struct {
	VoiceAvailable bool
}

// Machine is the interview session state machine. It is a value type;
// Update returns the next machine and the effects to run.
type Machine struct {
	state       State
	checked     bool
	unfinished  scoring.Unfinished
	loading     bool
	interviewID int
	question    *scoring.Question
	countdown   timer.Countdown
	collector   answer.Collector
	capture     speech.Capture
	pending     *scoring.SubmitRequest
	trigger     Trigger
	lastAnswer  answer.Answer
	retryEmpty  bool
	answered    []Answered
	finalScore  float64
	summary     string
	err         error
	speechErr   error
}

// New returns a machine in NotStarted, gated until the unfinished check resolves.
func New(opts Options) Machine {
	return Machine{
		state:     NotStarted,
		collector: answer.NewCollector(opts.VoiceAvailable),
		capture:   speech.NewCapture(opts.VoiceAvailable),
	}
}

// Init returns the effects that open the session.
func (m Machine) Init() []Effect {
	return []Effect{CheckUnfinished{}}
}

// Update applies one message.
func (m Machine) Update(msg any) (Machine, []Effect) {
	switch msg := msg.(type) {
	case UnfinishedCheckedMsg:
		return m.onChecked(msg)
	case BeginRequested:
		return m.onBeginRequested(msg)
	case ResumeRequested:
		return m.onResumeRequested(msg)
	case BeginResultMsg:
		return m.onBeginResult(msg)
	case ResumeResultMsg:
		return m.onResumeResult(msg)
	case timer.TickMsg:
		return m.onTick(msg)
	case SubmitRequested:
		return m.submit(TriggerUser)
	case SubmitResultMsg:
		return m.onSubmitResult(msg)
	case TextChanged:
		m.collector = m.collector.SetText(msg.Text)
		return m, nil
	case ModeRequested:
		return m.onMode(msg)
	case RecordToggled:
		return m.onRecordToggled()
	case SpeechStartedMsg:
		return m.onSpeechStarted(msg)
	case speech.SegmentMsg:
		if !m.capture.Apply(msg.ID, msg.Segment) {
			return m, nil
		}
		m.collector = m.collector.SetTranscript(m.capture.Transcript())
		return m, []Effect{ListenSpeech{ID: msg.ID}}
	case speech.EndMsg:
		return m.stopRecording(msg.ID)
	case speech.ErrorMsg:
		if msg.ID != m.capture.ID() || !m.capture.Recording() {
			return m, nil
		}
		m.speechErr = msg.Err
		return m.stopRecording(msg.ID)
	case speech.RecordingTickMsg:
		if m.capture.Tick(msg.ID) {
			return m, []Effect{ScheduleRecordingTick{ID: msg.ID}}
		}
		return m, nil
	}
	return m, nil
}

func (m Machine) onChecked(msg UnfinishedCheckedMsg) (Machine, []Effect) {
	if m.checked {
		return m, nil
	}
	m.checked = true
	m.err = msg.Err
	if msg.Err == nil {
		m.unfinished = msg.Unfinished
	}
	return m, nil
}

func (m Machine) canStart() bool {
	return m.checked && !m.loading && m.state == NotStarted
}

func (m Machine) onBeginRequested(msg BeginRequested) (Machine, []Effect) {
	if !m.canStart() {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, []Effect{Begin{Candidate: msg.Candidate}}
}

func (m Machine) onResumeRequested(msg ResumeRequested) (Machine, []Effect) {
	if !m.canStart() || msg.InterviewID == 0 {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, []Effect{Resume{InterviewID: msg.InterviewID}}
}

func (m Machine) onBeginResult(msg BeginResultMsg) (Machine, []Effect) {
	if !m.loading || m.state != NotStarted {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		return m, nil
	}
	m.interviewID = msg.Response.InterviewID
	return m.activate(msg.Response.Question)
}

func (m Machine) onResumeResult(msg ResumeResultMsg) (Machine, []Effect) {
	if !m.loading || m.state != NotStarted {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		return m, nil
	}
	m.interviewID = msg.InterviewID
	m.unfinished = scoring.Unfinished{}
	return m.activate(msg.Response.Question)
}

// activate replaces the current question, restarts the countdown and
// discards the previous question's buffers.
func (m Machine) activate(q scoring.Question) (Machine, []Effect) {
	var effects []Effect
	if m.capture.Recording() {
		m.capture.Stop()
		effects = append(effects, StopSpeech{ID: m.capture.ID()})
	}
	question := q
	m.question = &question
	m.state = QuestionActive
	m.pending = nil
	m.retryEmpty = false
	m.err = nil
	m.speechErr = nil
	m.collector = m.collector.Reset()
	m.capture.Clear()
	gen := m.countdown.Start(q.TimeLimit)
	if m.countdown.Running() {
		return m, append(effects, ScheduleTick{Gen: gen})
	}
	// A question with no time at all expires immediately.
	next, more := m.submit(TriggerExpiry)
	return next, append(effects, more...)
}

func (m Machine) onTick(msg timer.TickMsg) (Machine, []Effect) {
	if m.state != QuestionActive {
		return m, nil
	}
	switch m.countdown.Tick(msg.Gen) {
	case timer.Ticked:
		return m, []Effect{ScheduleTick{Gen: m.countdown.Gen()}}
	case timer.Expired:
		return m.submit(TriggerExpiry)
	default:
		return m, nil
	}
}

// submit takes the guard and issues exactly one submission. Manual
// submissions need a non-empty answer unless an expiry submission already
// failed with no time left.
func (m Machine) submit(trigger Trigger) (Machine, []Effect) {
	if m.state != QuestionActive || m.question == nil {
		return m, nil
	}
	if trigger == TriggerUser && !m.collector.Ready() && !m.retryEmpty {
		return m, nil
	}
	ans := m.collector.Resolve()
	m.countdown.Stop()
	req := scoring.SubmitRequest{
		QuestionID: m.question.ID,
		Answer:     ans.Value,
		TimeTaken:  clamp(m.countdown.Elapsed(), 0, m.question.TimeLimit),
	}
	var effects []Effect
	if m.capture.Recording() {
		m.capture.Stop()
		effects = append(effects, StopSpeech{ID: m.capture.ID()})
	}
	m.state = Submitting
	m.pending = &req
	m.trigger = trigger
	m.lastAnswer = ans
	m.err = nil
	return m, append(effects, Submit{Request: req})
}

func (m Machine) onSubmitResult(msg SubmitResultMsg) (Machine, []Effect) {
	if m.state != Submitting || m.pending == nil {
		return m, nil
	}
	err := msg.Err
	if err == nil {
		err = msg.Result.Check()
	}
	if err != nil {
		return m.submitFailed(err)
	}
	m.answered = append(m.answered, Answered{
		Question:  *m.question,
		Answer:    m.lastAnswer,
		TimeTaken: m.pending.TimeTaken,
		Trigger:   m.trigger,
	})
	m.pending = nil
	if msg.Result.InterviewComplete {
		m.state = Complete
		m.question = nil
		m.interviewID = 0
		m.finalScore = msg.Result.FinalScore
		m.summary = msg.Result.Summary
		m.collector = m.collector.Reset()
		m.capture.Clear()
		return m, nil
	}
	return m.activate(*msg.Result.NextQuestion)
}

// submitFailed releases the guard and keeps the question. The countdown
// continues from the remaining time it had when the guard was taken.
func (m Machine) submitFailed(err error) (Machine, []Effect) {
	m.state = QuestionActive
	m.pending = nil
	m.err = err
	gen, ok := m.countdown.Resume()
	if !ok {
		m.retryEmpty = true
		return m, nil
	}
	return m, []Effect{ScheduleTick{Gen: gen}}
}

func (m Machine) onMode(msg ModeRequested) (Machine, []Effect) {
	next, err := m.collector.SetMode(msg.Mode)
	if err != nil {
		m.speechErr = err
		return m, nil
	}
	m.collector = next
	return m, nil
}

func (m Machine) onRecordToggled() (Machine, []Effect) {
	if m.capture.Recording() {
		return m.stopRecording(m.capture.ID())
	}
	if m.state != QuestionActive {
		return m, nil
	}
	id, err := m.capture.Start()
	if err != nil {
		m.speechErr = err
		return m, nil
	}
	if next, err := m.collector.SetMode(answer.ModeVoice); err == nil {
		m.collector = next
	}
	m.collector = m.collector.SetTranscript("")
	m.speechErr = nil
	return m, []Effect{StartSpeech{ID: id}}
}

func (m Machine) onSpeechStarted(msg SpeechStartedMsg) (Machine, []Effect) {
	if msg.ID != m.capture.ID() || !m.capture.Recording() {
		return m, []Effect{StopSpeech{ID: msg.ID}}
	}
	if msg.Err != nil {
		m.speechErr = msg.Err
		m.capture.Stop()
		return m, []Effect{StopSpeech{ID: msg.ID}}
	}
	return m, []Effect{ListenSpeech{ID: msg.ID}, ScheduleRecordingTick{ID: msg.ID}}
}

func (m Machine) stopRecording(id int) (Machine, []Effect) {
	if id != m.capture.ID() || !m.capture.Stop() {
		return m, nil
	}
	m.collector = m.collector.SetTranscript(m.capture.Transcript())
	return m, []Effect{StopSpeech{ID: id}}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// State returns the lifecycle phase.
func (m Machine) State() State { return m.state }

// Checked reports whether the unfinished-interview check has resolved.
func (m Machine) Checked() bool { return m.checked }

// Unfinished returns the interrupted interview found at startup, if any.
func (m Machine) Unfinished() scoring.Unfinished { return m.unfinished }

// Loading reports whether a begin or resume call is in flight.
func (m Machine) Loading() bool { return m.loading }

// InterviewID returns the active interview id, zero when none.
func (m Machine) InterviewID() int { return m.interviewID }

// Question returns the current question, nil before start and after completion.
func (m Machine) Question() *scoring.Question { return m.question }

// Remaining returns the seconds left on the current question.
func (m Machine) Remaining() int { return m.countdown.Remaining() }

// TickGen returns the countdown run that the next tick must carry.
func (m Machine) TickGen() int { return m.countdown.Gen() }

// LowTime reports whether the remaining time is in the warning band.
func (m Machine) LowTime() bool { return m.question != nil && m.countdown.Low() }

// Collector returns the answer collector.
func (m Machine) Collector() answer.Collector { return m.collector }

// Capture returns the speech capture state.
func (m Machine) Capture() speech.Capture { return m.capture }

// Pending returns the in-flight submission, nil when the guard is free.
func (m Machine) Pending() *scoring.SubmitRequest { return m.pending }

// CanSubmit reports whether a manual submission would be accepted now.
func (m Machine) CanSubmit() bool {
	return m.state == QuestionActive && (m.collector.Ready() || m.retryEmpty)
}

// Answered returns the answered questions in order.
func (m Machine) Answered() []Answered {
	return append([]Answered(nil), m.answered...)
}

// FinalScore returns the score reported on completion.
func (m Machine) FinalScore() float64 { return m.finalScore }

// Summary returns the summary reported on completion.
func (m Machine) Summary() string { return m.summary }

// Err returns the last surfaced operation error.
func (m Machine) Err() error { return m.err }

// SpeechErr returns the last non-blocking speech problem.
func (m Machine) SpeechErr() error { return m.speechErr }
