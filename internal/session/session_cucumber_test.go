package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"intervue/internal/answer"
	"intervue/internal/speech"
	"intervue/internal/store"
	"intervue/internal/testutil"
	"intervue/internal/timer"
	"intervue/pkg/scoring"
	"intervue/pkg/scoring/httpclient"
)

func TestSessionFeatures(t *testing.T) {
	options := godog.Options{
		Format:    "progress",
		Paths:     []string{filepath.Join("testdata", "features")},
		Output:    io.Discard,
		TestingT:  t,
		Randomize: 0,
	}
	suite := godog.TestSuite{
		Name:                "intervue-session",
		ScenarioInitializer: func(sc *godog.ScenarioContext) { initializeScenario(t, sc) },
		Options:             &options,
	}
	if suite.Run() != 0 {
		t.Fatalf("session features failed")
	}
}

// sessionFeature drives a machine synchronously against the fake service.
// Ticks are delivered by the steps rather than by a clock.
type sessionFeature struct {
	t       *testing.T
	ctx     context.Context
	fake    *testutil.FakeService
	store   *store.Store
	exec    *Executor
	machine Machine
	tickGen int
	voice   bool
}

func initializeScenario(t *testing.T, sc *godog.ScenarioContext) {
	f := &sessionFeature{t: t}

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if f.store != nil {
			_ = f.store.Close()
		}
		return ctx, nil
	})

	sc.Step(`^the scoring service is available$`, f.serviceAvailable)
	sc.Step(`^voice input is available$`, f.voiceAvailable)
	sc.Step(`^the unfinished interview check has completed$`, f.checkCompleted)
	sc.Step(`^an interrupted interview (\d+) is waiting at question (\d+)$`, f.interruptedInterview)
	sc.Step(`^the candidate has begun an interview$`, f.begin)
	sc.Step(`^the candidate resumes interview (\d+)$`, f.resume)
	sc.Step(`^the service will report a final score of (\d+)$`, f.finalScoreWillBe)
	sc.Step(`^(\d+) seconds? elapses?$`, f.elapse)
	sc.Step(`^the candidate types "([^"]*)"$`, f.types)
	sc.Step(`^the candidate records "([^"]*)"$`, f.records)
	sc.Step(`^the candidate switches to "(text|voice)" input$`, f.switchMode)
	sc.Step(`^the candidate submits$`, f.submits)
	sc.Step(`^the candidate submits while the final tick fires$`, f.submitsWithFinalTick)
	sc.Step(`^the candidate answers (\d+) questions$`, f.answersQuestions)
	sc.Step(`^the scoring service starts failing with "([^"]*)"$`, f.serviceFails)
	sc.Step(`^the scoring service recovers$`, f.serviceRecovers)
	sc.Step(`^exactly (\d+) submissions? (?:was|were) sent$`, f.submissionCount)
	sc.Step(`^the last submission carried answer "([^"]*)" and time taken (\d+)$`, f.lastSubmission)
	sc.Step(`^the state is "([a-z_]+)"$`, f.stateIs)
	sc.Step(`^the current question is (\d+) with difficulty "([a-z]+)" and a (\d+) second limit$`, f.currentQuestion)
	sc.Step(`^the remaining time is (\d+)$`, f.remaining)
	sc.Step(`^the final score is (\d+)$`, f.finalScore)
	sc.Step(`^the session identity is cleared$`, f.identityCleared)
	sc.Step(`^the directory is refreshed exactly once$`, f.refreshedOnce)
	sc.Step(`^the error message is "([^"]*)"$`, f.errorMessage)
}

func (f *sessionFeature) serviceAvailable() error {
	f.ctx = testutil.Context(f.t, testutil.DefaultTimeout)
	f.fake = testutil.StartFakeService(f.t)
	f.store = store.New(httpclient.New(f.fake.BaseURL))
	f.exec = NewExecutor(f.ctx, f.store, ExecutorOptions{})
	f.machine = New(Options{})
	f.tickGen = 0
	f.voice = false
	return nil
}

func (f *sessionFeature) voiceAvailable() error {
	f.voice = true
	f.machine = New(Options{VoiceAvailable: true})
	f.apply(UnfinishedCheckedMsg{})
	return nil
}

func (f *sessionFeature) checkCompleted() error {
	f.run(f.machine.Init())
	if !f.machine.Checked() {
		return fmt.Errorf("unfinished check did not resolve")
	}
	return nil
}

func (f *sessionFeature) interruptedInterview(id, number int) error {
	f.fake.SetUnfinished(scoring.Unfinished{HasUnfinished: true, InterviewID: id, CurrentQuestion: number})
	f.machine = New(Options{})
	f.run(f.machine.Init())
	if f.machine.Unfinished().InterviewID != id {
		return fmt.Errorf("expected unfinished interview %d, got %+v", id, f.machine.Unfinished())
	}
	return nil
}

func (f *sessionFeature) begin() error {
	f.apply(BeginRequested{Candidate: scoring.Candidate{Name: "Ada", Email: "ada@example.com", Phone: "5550100"}})
	if f.machine.State() != QuestionActive {
		return fmt.Errorf("begin failed: %v", f.machine.Err())
	}
	return nil
}

func (f *sessionFeature) resume(id int) error {
	f.apply(ResumeRequested{InterviewID: id})
	return f.machine.Err()
}

func (f *sessionFeature) finalScoreWillBe(score int) error {
	f.fake.SetCompletion(float64(score), "Consistent and clear.")
	return nil
}

func (f *sessionFeature) elapse(seconds int) error {
	for i := 0; i < seconds; i++ {
		f.apply(timer.TickMsg{Gen: f.tickGen, At: time.Now()})
	}
	return nil
}

func (f *sessionFeature) types(text string) error {
	f.apply(TextChanged{Text: text})
	return nil
}

func (f *sessionFeature) records(text string) error {
	f.apply(RecordToggled{})
	capture := f.machine.Capture()
	if !capture.Recording() {
		return fmt.Errorf("recording did not start: %v", f.machine.SpeechErr())
	}
	f.apply(SpeechStartedMsg{ID: capture.ID()})
	f.apply(speech.SegmentMsg{ID: capture.ID(), Segment: speech.Segment{Text: text, Final: true}})
	f.apply(speech.EndMsg{ID: capture.ID()})
	return nil
}

func (f *sessionFeature) switchMode(mode string) error {
	f.apply(ModeRequested{Mode: answer.Mode(mode)})
	if string(f.machine.Collector().Mode()) != mode {
		return fmt.Errorf("mode is %s", f.machine.Collector().Mode())
	}
	return nil
}

func (f *sessionFeature) submits() error {
	f.apply(SubmitRequested{})
	return nil
}

// submitsWithFinalTick applies the user submission and the expiring tick
// back to back, before either network call returns.
func (f *sessionFeature) submitsWithFinalTick() error {
	gen := f.tickGen
	var effects []Effect
	f.machine, effects = f.machine.Update(SubmitRequested{})
	var more []Effect
	f.machine, more = f.machine.Update(timer.TickMsg{Gen: gen})
	f.run(append(effects, more...))
	return nil
}

func (f *sessionFeature) answersQuestions(n int) error {
	for i := 1; i <= n; i++ {
		if f.machine.State() != QuestionActive {
			return fmt.Errorf("question %d not active: %v", i, f.machine.Err())
		}
		f.apply(TextChanged{Text: fmt.Sprintf("answer %d", i)})
		f.apply(SubmitRequested{})
	}
	return nil
}

func (f *sessionFeature) serviceFails(message string) error {
	f.fake.FailSubmit(message)
	return nil
}

func (f *sessionFeature) serviceRecovers() error {
	f.fake.FailSubmit("")
	return nil
}

func (f *sessionFeature) submissionCount(n int) error {
	if got := len(f.fake.Submits()); got != n {
		return fmt.Errorf("expected %d submissions, got %d", n, got)
	}
	return nil
}

func (f *sessionFeature) lastSubmission(text string, taken int) error {
	submits := f.fake.Submits()
	if len(submits) == 0 {
		return fmt.Errorf("no submissions")
	}
	last := submits[len(submits)-1]
	if last.Answer != text || last.TimeTaken != taken {
		return fmt.Errorf("expected %q/%d, got %q/%d", text, taken, last.Answer, last.TimeTaken)
	}
	return nil
}

func (f *sessionFeature) stateIs(state string) error {
	if got := f.machine.State().String(); got != state {
		return fmt.Errorf("expected state %s, got %s (err %v)", state, got, f.machine.Err())
	}
	return nil
}

func (f *sessionFeature) currentQuestion(number int, difficulty string, limit int) error {
	q := f.machine.Question()
	if q == nil {
		return fmt.Errorf("no current question")
	}
	if q.Number != number || string(q.Difficulty) != difficulty || q.TimeLimit != limit {
		return fmt.Errorf("unexpected question %+v", *q)
	}
	return nil
}

func (f *sessionFeature) remaining(seconds int) error {
	if got := f.machine.Remaining(); got != seconds {
		return fmt.Errorf("expected %ds remaining, got %d", seconds, got)
	}
	return nil
}

func (f *sessionFeature) finalScore(score int) error {
	if f.machine.FinalScore() != float64(score) {
		return fmt.Errorf("expected score %d, got %v", score, f.machine.FinalScore())
	}
	return nil
}

func (f *sessionFeature) identityCleared() error {
	if f.machine.Question() != nil || f.machine.InterviewID() != 0 {
		return fmt.Errorf("machine still holds a session")
	}
	if f.store.SessionID() != 0 || f.store.Question() != nil {
		return fmt.Errorf("store still holds a session")
	}
	return nil
}

func (f *sessionFeature) refreshedOnce() error {
	if err := f.store.Close(); err != nil {
		return err
	}
	if got := f.fake.ListCalls(); got != 1 {
		return fmt.Errorf("expected one directory refresh, got %d", got)
	}
	return nil
}

func (f *sessionFeature) errorMessage(message string) error {
	if f.machine.Err() == nil || f.machine.Err().Error() != message {
		return fmt.Errorf("expected error %q, got %v", message, f.machine.Err())
	}
	return nil
}

func (f *sessionFeature) apply(msg any) {
	var effects []Effect
	f.machine, effects = f.machine.Update(msg)
	f.run(effects)
}

// run executes effects inline. Ticks only record their generation and
// speech effects are no-ops because the steps inject recognizer events.
func (f *sessionFeature) run(effects []Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case ScheduleTick:
			f.tickGen = e.Gen
		case StartSpeech, StopSpeech, ListenSpeech, ScheduleRecordingTick:
		default:
			if cmd := f.exec.Cmd(effect); cmd != nil {
				f.apply(cmd())
			}
		}
	}
}
