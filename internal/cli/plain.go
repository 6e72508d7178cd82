package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"intervue/internal/answer"
	"intervue/internal/session"
	"intervue/internal/timer"
	"intervue/internal/ui/interview"
	"intervue/pkg/scoring"
)

// plainOptions configures the line-oriented interview.
type plainOptions struct {
	Candidate scoring.Candidate
	Start     interview.StartChoice
}

// lockedWriter serializes writes from the runtime and input goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// plainInterview drives a session runtime from line input. The observer
// runs on the runtime goroutine and publishes snapshots; the input
// goroutine waits on them before acting.
type plainInterview struct {
	opts   plainOptions
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	rt     *session.Runtime
	voice  bool

	mu        sync.Mutex
	snap      session.Machine
	changed   chan struct{}
	decided   bool
	choosing  bool
	starting  bool
	failures  int
	answered  int
	prevState session.State
	shownQID  int
	warnedLow bool
	speechErr error
	fatal     error
}

func runPlainInterview(ctx context.Context, exec *session.Executor, opts plainOptions, reader *bufio.Reader, stdout io.Writer) (session.Machine, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := &plainInterview{
		opts:    opts,
		out:     &lockedWriter{w: stdout},
		ctx:     ctx,
		cancel:  cancel,
		voice:   exec.VoiceAvailable(),
		changed: make(chan struct{}),
	}
	p.rt = session.NewRuntime(exec, session.New(session.Options{VoiceAvailable: p.voice}), p.observe)
	go p.readInput(reader)
	final := p.rt.Run(ctx)
	cancel()
	p.rt.Wait()

	p.mu.Lock()
	fatal := p.fatal
	p.mu.Unlock()
	if final.State() == session.Complete {
		printCompletion(p.out, final)
	}
	return final, fatal
}

// observe prints transitions and makes the start decision.
func (p *plainInterview) observe(m session.Machine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.broadcast()
	p.snap = m

	if p.prevState == session.Submitting && m.State() == session.QuestionActive && m.Err() != nil {
		p.failures++
		fmt.Fprintf(p.out, "Submit failed: %v\nPress Enter to retry or type a new answer.\n", m.Err())
	}
	p.prevState = m.State()
	if !m.Checked() {
		return
	}
	if !p.decided {
		p.decide(m)
	}
	if m.Loading() {
		p.starting = true
	} else if p.starting && m.State() == session.NotStarted {
		p.fatal = m.Err()
		if p.fatal == nil {
			p.fatal = errors.New("interview did not start")
		}
		p.cancel()
		return
	}

	answered := m.Answered()
	for _, a := range answered[p.answered:] {
		if a.Trigger == session.TriggerExpiry {
			fmt.Fprintf(p.out, "Time is up for question %d; submitted %q.\n", a.Question.Number, a.Answer.Value)
		}
	}
	p.answered = len(answered)

	if q := m.Question(); q != nil && q.ID != p.shownQID {
		p.shownQID = q.ID
		p.warnedLow = false
		fmt.Fprintf(p.out, "\nQuestion %d of %d [%s, %s]\n%s\n", q.Number, scoring.TotalQuestions, q.Difficulty, timer.Format(q.TimeLimit), q.Text)
		fmt.Fprintln(p.out, "Type your answer and press Enter. Commands: :voice :text :rec :quit")
	}
	if m.State() == session.QuestionActive && m.LowTime() && !p.warnedLow {
		p.warnedLow = true
		fmt.Fprintf(p.out, "%s left\n", timer.Format(m.Remaining()))
	}
	if err := m.SpeechErr(); err != nil && err != p.speechErr {
		fmt.Fprintf(p.out, "Voice: %v\n", err)
	}
	p.speechErr = m.SpeechErr()
}

// decide applies the start choice once the unfinished check resolves.
func (p *plainInterview) decide(m session.Machine) {
	p.decided = true
	if err := m.Err(); err != nil {
		fmt.Fprintf(p.out, "Could not check for an unfinished interview: %v\n", err)
	}
	u := m.Unfinished()
	switch {
	case u.HasUnfinished && p.opts.Start == interview.StartResume:
		p.sendAsync(session.ResumeRequested{InterviewID: u.InterviewID})
	case !u.HasUnfinished && p.opts.Start == interview.StartResume && p.opts.Candidate.Validate() != nil:
		p.fatal = interview.ErrNothingToResume
		p.cancel()
	case u.HasUnfinished && p.opts.Start == interview.StartAsk:
		name := "candidate"
		if u.Candidate != nil && u.Candidate.Name != "" {
			name = u.Candidate.Name
		}
		fmt.Fprintf(p.out, "Welcome back, %s. Interview %d is unfinished at question %d of %d.\n",
			name, u.InterviewID, u.CurrentQuestion, scoring.TotalQuestions)
		p.choosing = true
	default:
		fmt.Fprintln(p.out, interview.Rules())
		p.sendAsync(session.BeginRequested{Candidate: p.opts.Candidate})
	}
}

// sendAsync queues a message from the runtime goroutine without blocking it.
func (p *plainInterview) sendAsync(msg any) {
	go p.rt.Send(p.ctx, msg)
}

// broadcast wakes every waiter. Callers hold mu.
func (p *plainInterview) broadcast() {
	close(p.changed)
	p.changed = make(chan struct{})
}

// waitFor blocks until pred holds under mu, returning the snapshot it saw.
func (p *plainInterview) waitFor(pred func() bool) (session.Machine, bool) {
	for {
		p.mu.Lock()
		if pred() {
			snap := p.snap
			p.mu.Unlock()
			return snap, true
		}
		ch := p.changed
		p.mu.Unlock()
		select {
		case <-ch:
		case <-p.ctx.Done():
			return session.Machine{}, false
		}
	}
}

func (p *plainInterview) readInput(reader *bufio.Reader) {
	mode := answer.ModeText
	for {
		_, ok := p.waitFor(func() bool { return p.choosing || p.snap.State() == session.QuestionActive })
		if !ok {
			return
		}
		p.mu.Lock()
		choosing := p.choosing
		p.mu.Unlock()
		if choosing {
			resume, err := promptYesNo(reader, p.out, "Resume it?", true)
			if err != nil {
				resume = false
			}
			p.mu.Lock()
			p.choosing = false
			unfinished := p.snap.Unfinished()
			p.mu.Unlock()
			if resume {
				p.rt.Send(p.ctx, session.ResumeRequested{InterviewID: unfinished.InterviewID})
			} else {
				fmt.Fprintln(p.out, interview.Rules())
				p.rt.Send(p.ctx, session.BeginRequested{Candidate: p.opts.Candidate})
			}
			continue
		}

		line, err := readLine(reader)
		if err != nil && line == "" {
			// Without more input the clock decides the remaining answers.
			return
		}
		line = strings.TrimSpace(line)
		switch line {
		case ":quit":
			p.cancel()
			return
		case ":text":
			mode = answer.ModeText
			p.rt.Send(p.ctx, session.ModeRequested{Mode: answer.ModeText})
			continue
		case ":voice":
			if !p.voice {
				fmt.Fprintln(p.out, "Voice input is unavailable; configure speech.command to enable it.")
				continue
			}
			mode = answer.ModeVoice
			p.rt.Send(p.ctx, session.ModeRequested{Mode: answer.ModeVoice})
			fmt.Fprintln(p.out, "Voice mode: :rec starts and stops recording, Enter submits the transcript.")
			continue
		case ":rec":
			if !p.voice {
				fmt.Fprintln(p.out, "Voice input is unavailable.")
				continue
			}
			mode = answer.ModeVoice
			p.rt.Send(p.ctx, session.RecordToggled{})
			continue
		}

		p.mu.Lock()
		snap := p.snap
		answeredBefore, failuresBefore := p.answered, p.failures
		p.mu.Unlock()
		switch {
		case mode == answer.ModeText && line != "":
			p.rt.Send(p.ctx, session.TextChanged{Text: line})
		case !snap.CanSubmit():
			if mode == answer.ModeVoice {
				fmt.Fprintln(p.out, "Nothing transcribed yet.")
			} else {
				fmt.Fprintln(p.out, "Answer is empty.")
			}
			continue
		}
		p.rt.Send(p.ctx, session.SubmitRequested{})
		if _, ok := p.waitFor(func() bool {
			return p.answered > answeredBefore || p.failures > failuresBefore || p.snap.State() == session.Complete
		}); !ok {
			return
		}
	}
}
