package session

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"intervue/internal/speech"
	"intervue/internal/timer"
	"intervue/pkg/scoring"
)

// Backend is the set of session operations the executor needs.
// store.Store satisfies it.
type Backend interface {
	Begin(ctx context.Context, candidate scoring.Candidate) (scoring.BeginResponse, error)
	Submit(ctx context.Context, questionID int, answer string, timeTaken int) (scoring.SubmitResult, error)
	Resume(ctx context.Context, interviewID int) (scoring.ResumeResponse, error)
	CheckUnfinished(ctx context.Context) (scoring.Unfinished, error)
}

// Executor turns machine effects into Bubble Tea commands. It owns the
// recognizer streams so the machine stays plain data.
type Executor struct {
	ctx          context.Context
	backend      Backend
	recognizer   speech.Recognizer
	tickInterval time.Duration
	log          zerolog.Logger

	mu      sync.Mutex
	streams map[int]*speech.Stream
}

// ExecutorOptions configures an executor.
type ExecutorOptions struct {
	Recognizer   speech.Recognizer
	TickInterval time.Duration
	Log          zerolog.Logger
}

// NewExecutor builds an executor bound to ctx.
func NewExecutor(ctx context.Context, backend Backend, opts ExecutorOptions) *Executor {
	if opts.Recognizer == nil {
		opts.Recognizer = speech.Unsupported{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &Executor{
		ctx:          ctx,
		backend:      backend,
		recognizer:   opts.Recognizer,
		tickInterval: opts.TickInterval,
		log:          opts.Log,
		streams:      make(map[int]*speech.Stream),
	}
}

// VoiceAvailable reports whether the recognizer can record.
func (e *Executor) VoiceAvailable() bool {
	return e.recognizer.Available()
}

// Batch converts effects to one command.
func (e *Executor) Batch(effects []Effect) tea.Cmd {
	switch len(effects) {
	case 0:
		return nil
	case 1:
		return e.Cmd(effects[0])
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, effect := range effects {
		if cmd := e.Cmd(effect); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Cmd converts one effect to a command. StopSpeech runs synchronously.
func (e *Executor) Cmd(effect Effect) tea.Cmd {
	switch effect := effect.(type) {
	case CheckUnfinished:
		return func() tea.Msg {
			unfinished, err := e.backend.CheckUnfinished(e.ctx)
			return UnfinishedCheckedMsg{Unfinished: unfinished, Err: err}
		}
	case Begin:
		return func() tea.Msg {
			resp, err := e.backend.Begin(e.ctx, effect.Candidate)
			return BeginResultMsg{Response: resp, Err: err}
		}
	case Resume:
		return func() tea.Msg {
			resp, err := e.backend.Resume(e.ctx, effect.InterviewID)
			return ResumeResultMsg{InterviewID: effect.InterviewID, Response: resp, Err: err}
		}
	case Submit:
		req := effect.Request
		return func() tea.Msg {
			res, err := e.backend.Submit(e.ctx, req.QuestionID, req.Answer, req.TimeTaken)
			return SubmitResultMsg{Request: req, Result: res, Err: err}
		}
	case ScheduleTick:
		return timer.TickAfter(effect.Gen, e.tickInterval)
	case StartSpeech:
		return e.startSpeech(effect.ID)
	case StopSpeech:
		e.stopSpeech(effect.ID)
		return nil
	case ListenSpeech:
		return speech.Listen(effect.ID, e.stream(effect.ID))
	case ScheduleRecordingTick:
		return speech.TickRecording(effect.ID, e.tickInterval)
	}
	return nil
}

func (e *Executor) startSpeech(id int) tea.Cmd {
	return func() tea.Msg {
		stream, err := e.recognizer.Start(e.ctx)
		if err != nil {
			e.log.Warn().Err(err).Int("capture", id).Msg("speech start failed")
			return SpeechStartedMsg{ID: id, Err: err}
		}
		e.mu.Lock()
		for other, s := range e.streams {
			s.Stop()
			delete(e.streams, other)
		}
		e.streams[id] = stream
		e.mu.Unlock()
		return SpeechStartedMsg{ID: id}
	}
}

func (e *Executor) stopSpeech(id int) {
	e.mu.Lock()
	stream := e.streams[id]
	delete(e.streams, id)
	e.mu.Unlock()
	stream.Stop()
}

func (e *Executor) stream(id int) *speech.Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streams[id]
}

// Close stops every open recognizer stream.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, s := range e.streams {
		s.Stop()
		delete(e.streams, id)
	}
}
