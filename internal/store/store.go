// Package store holds client-side interview session state and the network
// operations that change it.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"intervue/internal/journal"
	"intervue/internal/notify"
	"intervue/pkg/scoring"
)

var (
	// ErrBusy is returned when another session operation is in flight.
	ErrBusy = errors.New("store: another operation is in progress")
	// ErrNoSession is returned when submitting without an active session.
	ErrNoSession = errors.New("store: no active interview session")
)

// Backend is the remote surface the store drives.
type Backend interface {
	scoring.Service
	scoring.Directory
}

// Recorder journals session events. *journal.Journal satisfies it.
type Recorder interface {
	RecordStart(ctx context.Context, s journal.Start) (string, error)
	RecordAnswer(ctx context.Context, key string, a journal.Answer) error
	RecordCompletion(ctx context.Context, key string, score float64, summary string) error
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithPublisher announces directory changes after completion.
func WithPublisher(p notify.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithRecorder journals every begin, answer and completion.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithRefreshTimeout bounds the post-completion directory refresh.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.refreshTimeout = d
		}
	}
}

// Store owns session identity and the current question. It is built once
// at startup and closed at shutdown.
type Store struct {
	backend        Backend
	publisher      notify.Publisher
	recorder       Recorder
	log            zerolog.Logger
	refreshTimeout time.Duration

	mu         sync.Mutex
	inFlight   bool
	sessionID  int
	candidate  scoring.Candidate
	question   *scoring.Question
	journalKey string
	candidates []scoring.CandidateSummary
	refreshed  int
	err        error

	background sync.WaitGroup
}

// New constructs a store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:        backend,
		log:            zerolog.Nop(),
		refreshTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin validates the candidate and starts a fresh interview.
func (s *Store) Begin(ctx context.Context, candidate scoring.Candidate) (scoring.BeginResponse, error) {
	if err := s.acquire(); err != nil {
		return scoring.BeginResponse{}, err
	}
	defer s.release()
	if err := candidate.Validate(); err != nil {
		return scoring.BeginResponse{}, s.fail("begin", err)
	}
	resp, err := s.backend.Begin(ctx, candidate)
	if err != nil {
		return scoring.BeginResponse{}, s.fail("begin", err)
	}
	key := s.recordStart(ctx, journal.Start{InterviewID: resp.InterviewID, Candidate: candidate})
	s.mu.Lock()
	s.sessionID = resp.InterviewID
	s.candidate = candidate
	q := resp.Question
	s.question = &q
	s.journalKey = key
	s.err = nil
	s.mu.Unlock()
	s.log.Info().Int("interview_id", resp.InterviewID).Int("question", q.Number).Msg("interview started")
	return resp, nil
}

// Resume reattaches to an interrupted interview.
func (s *Store) Resume(ctx context.Context, interviewID int) (scoring.ResumeResponse, error) {
	if err := s.acquire(); err != nil {
		return scoring.ResumeResponse{}, err
	}
	defer s.release()
	resp, err := s.backend.Resume(ctx, interviewID)
	if err != nil {
		return scoring.ResumeResponse{}, s.fail("resume", err)
	}
	key := s.recordStart(ctx, journal.Start{InterviewID: interviewID, Resumed: true})
	s.mu.Lock()
	s.sessionID = interviewID
	q := resp.Question
	s.question = &q
	s.journalKey = key
	s.err = nil
	s.mu.Unlock()
	s.log.Info().Int("interview_id", interviewID).Int("question", q.Number).Msg("interview resumed")
	return resp, nil
}

// Submit sends one answer for the current session. On completion the
// session identity is cleared and the directory refresh runs in the background.
func (s *Store) Submit(ctx context.Context, questionID int, answer string, timeTaken int) (scoring.SubmitResult, error) {
	if err := s.acquire(); err != nil {
		return scoring.SubmitResult{}, err
	}
	defer s.release()
	s.mu.Lock()
	sessionID, question, key := s.sessionID, s.question, s.journalKey
	s.mu.Unlock()
	if sessionID == 0 {
		return scoring.SubmitResult{}, s.fail("submit", ErrNoSession)
	}
	res, err := s.backend.Submit(ctx, scoring.SubmitRequest{QuestionID: questionID, Answer: answer, TimeTaken: timeTaken})
	if err != nil {
		return scoring.SubmitResult{}, s.fail("submit", err)
	}
	if err := res.Check(); err != nil {
		return scoring.SubmitResult{}, s.fail("submit", err)
	}
	if question != nil && question.ID == questionID {
		s.record("answer", key, func(r Recorder) error {
			return r.RecordAnswer(ctx, key, journal.Answer{Question: *question, Text: answer, TimeTaken: timeTaken})
		})
	}
	if res.InterviewComplete {
		s.record("completion", key, func(r Recorder) error {
			return r.RecordCompletion(ctx, key, res.FinalScore, res.Summary)
		})
		s.mu.Lock()
		s.sessionID = 0
		s.question = nil
		s.candidate = scoring.Candidate{}
		s.journalKey = ""
		s.err = nil
		s.mu.Unlock()
		s.log.Info().Int("interview_id", sessionID).Float64("final_score", res.FinalScore).Msg("interview complete")
		s.refreshAsync(ctx)
		return res, nil
	}
	next := *res.NextQuestion
	s.mu.Lock()
	s.question = &next
	s.err = nil
	s.mu.Unlock()
	return res, nil
}

// CheckUnfinished asks the service for an interrupted interview.
func (s *Store) CheckUnfinished(ctx context.Context) (scoring.Unfinished, error) {
	if err := s.acquire(); err != nil {
		return scoring.Unfinished{}, err
	}
	defer s.release()
	u, err := s.backend.CheckUnfinished(ctx)
	if err != nil {
		return scoring.Unfinished{}, s.fail("check unfinished", err)
	}
	return u, nil
}

// Candidates fetches the directory list and caches it.
func (s *Store) Candidates(ctx context.Context) ([]scoring.CandidateSummary, error) {
	rows, err := s.backend.ListCandidates(ctx)
	if err != nil {
		return nil, s.fail("list candidates", err)
	}
	s.mu.Lock()
	s.candidates = rows
	s.mu.Unlock()
	return rows, nil
}

// CandidateDetail fetches one candidate's interview record.
func (s *Store) CandidateDetail(ctx context.Context, id int) (scoring.CandidateDetail, error) {
	detail, err := s.backend.CandidateDetail(ctx, id)
	if err != nil {
		return scoring.CandidateDetail{}, s.fail("candidate detail", err)
	}
	return detail, nil
}

// SessionID returns the active interview id, zero when none.
func (s *Store) SessionID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Question returns the current question, nil when no session is active.
func (s *Store) Question() *scoring.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// InFlight reports whether a session operation is running.
func (s *Store) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Err returns the last operation error, nil after a success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CachedCandidates returns the last fetched directory list.
func (s *Store) CachedCandidates() []scoring.CandidateSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoring.CandidateSummary(nil), s.candidates...)
}

// Refreshes reports how many post-completion refreshes have finished.
func (s *Store) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

// Close waits for background refreshes to finish.
func (s *Store) Close() error {
	s.background.Wait()
	return nil
}

func (s *Store) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

func (s *Store) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.log.Warn().Err(err).Str("op", op).Msg("operation failed")
	return err
}

func (s *Store) recordStart(ctx context.Context, start journal.Start) string {
	if s.recorder == nil {
		return ""
	}
	key, err := s.recorder.RecordStart(ctx, start)
	if err != nil {
		s.log.Warn().Err(err).Msg("journal start failed")
		return ""
	}
	return key
}

func (s *Store) record(what, key string, fn func(Recorder) error) {
	if s.recorder == nil || key == "" {
		return
	}
	if err := fn(s.recorder); err != nil {
		s.log.Warn().Err(err).Str("event", what).Msg("journal write failed")
	}
}

// refreshAsync re-fetches the directory and announces the change. Its
// failure never reaches the completed session.
func (s *Store) refreshAsync(parent context.Context) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.refreshTimeout)
		defer cancel()
		rows, err := s.backend.ListCandidates(ctx)
		s.mu.Lock()
		if err == nil {
			s.candidates = rows
		}
		s.refreshed++
		s.mu.Unlock()
		if err != nil {
			s.log.Warn().Err(err).Msg("directory refresh failed")
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, notify.Updated()); err != nil {
				s.log.Warn().Err(fmt.Errorf("announce update: %w", err)).Msg("notification failed")
			}
		}
	}()
}
