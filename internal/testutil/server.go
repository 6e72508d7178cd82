package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"intervue/pkg/scoring"
)

// FakeService is an in-memory Question/Scoring Service and Candidate Directory.
// It issues six questions per interview with the canonical difficulty ladder.
type FakeService struct {
	BaseURL string

	mu            sync.Mutex
	server        *httptest.Server
	nextQuestion  int
	interviewID   int
	answered      int
	submits       []scoring.SubmitRequest
	listCalls     int
	failSubmit    string
	failBegin     string
	malformed     bool
	finalScore    float64
	summary       string
	unfinished    scoring.Unfinished
	candidates    []scoring.CandidateSummary
	details       map[int]scoring.CandidateDetail
	uploaded      scoring.Candidate
	uploadedNames []string
}

// StartFakeService launches the fake service on an httptest server.
func StartFakeService(t testing.TB) *FakeService {
	t.Helper()
	f := &FakeService{
		nextQuestion: 1,
		finalScore:   7,
		summary:      "Solid fundamentals.",
		details:      map[int]scoring.CandidateDetail{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/start-interview", f.handleBegin)
	mux.HandleFunc("/api/submit-answer", f.handleSubmit)
	mux.HandleFunc("/api/resume-interview", f.handleResume)
	mux.HandleFunc("/api/check-unfinished-interview", f.handleUnfinished)
	mux.HandleFunc("/api/candidates", f.handleCandidates)
	mux.HandleFunc("/api/candidate/", f.handleCandidate)
	mux.HandleFunc("/api/upload-resume", f.handleUpload)
	f.server = httptest.NewServer(mux)
	f.BaseURL = f.server.URL
	t.Cleanup(f.server.Close)
	return f
}

// FailSubmit makes subsequent submissions fail with message; empty clears it.
func (f *FakeService) FailSubmit(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSubmit = message
}

// FailBegin makes subsequent begin calls fail with message; empty clears it.
func (f *FakeService) FailBegin(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failBegin = message
}

// MalformedSubmit makes submissions return a body with neither next question nor completion.
func (f *FakeService) MalformedSubmit(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.malformed = enabled
}

// SetCompletion sets the final score and summary returned after the sixth answer.
func (f *FakeService) SetCompletion(score float64, summary string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalScore = score
	f.summary = summary
}

// SetUnfinished sets the unfinished-interview check response.
func (f *FakeService) SetUnfinished(u scoring.Unfinished) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unfinished = u
}

// SetCandidates sets the directory rows.
func (f *FakeService) SetCandidates(rows []scoring.CandidateSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = rows
}

// SetDetail registers a candidate detail record.
func (f *FakeService) SetDetail(detail scoring.CandidateDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[detail.Candidate.ID] = detail
}

// SetUploadResult sets the record returned by the resume intake.
func (f *FakeService) SetUploadResult(c scoring.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = c
}

// Submits returns a copy of every submit request received.
func (f *FakeService) Submits() []scoring.SubmitRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]scoring.SubmitRequest, len(f.submits))
	copy(out, f.submits)
	return out
}

// ListCalls reports how many times the directory list was fetched.
func (f *FakeService) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// UploadedNames returns the filenames received by the intake.
func (f *FakeService) UploadedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploadedNames...)
}

// QuestionFor builds the question the fake issues at a given ordinal.
func QuestionFor(id, number int) scoring.Question {
	difficulty := scoring.DifficultyHard
	switch {
	case number <= 2:
		difficulty = scoring.DifficultyEasy
	case number <= 4:
		difficulty = scoring.DifficultyMedium
	}
	return scoring.Question{
		ID:         id,
		Number:     number,
		Text:       fmt.Sprintf("Question %d", number),
		Difficulty: difficulty,
		TimeLimit:  scoring.CanonicalTimeLimit(difficulty),
	}
}

func (f *FakeService) handleBegin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Candidate scoring.Candidate `json:"candidate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBegin != "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": f.failBegin})
		return
	}
	f.interviewID++
	f.answered = 0
	q := QuestionFor(f.nextQuestion, 1)
	f.nextQuestion++
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"interview_id": f.interviewID,
		"question":     q,
	})
}

func (f *FakeService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req scoring.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
	if f.failSubmit != "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": f.failSubmit})
		return
	}
	if f.malformed {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "interview_complete": false})
		return
	}
	f.answered++
	if f.answered >= scoring.TotalQuestions {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":            true,
			"interview_complete": true,
			"final_score":        f.finalScore,
			"summary":            f.summary,
		})
		return
	}
	q := QuestionFor(f.nextQuestion, f.answered+1)
	f.nextQuestion++
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"interview_complete": false,
		"next_question":      q,
	})
}

func (f *FakeService) handleResume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InterviewID int `json:"interview_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.unfinished.HasUnfinished || req.InterviewID != f.unfinished.InterviewID {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Interview not found"})
		return
	}
	number := f.unfinished.CurrentQuestion
	if number <= 0 {
		number = 1
	}
	f.interviewID = req.InterviewID
	f.answered = number - 1
	q := QuestionFor(f.nextQuestion, number)
	f.nextQuestion++
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                 true,
		"question":                q,
		"current_question_number": number,
	})
}

func (f *FakeService) handleUnfinished(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.unfinished)
}

func (f *FakeService) handleCandidates(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "candidates": f.candidates})
}

func (f *FakeService) handleCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/candidate/"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Candidate not found"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	detail, ok := f.details[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Candidate not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"candidate": detail.Candidate,
		"interview": detail.Interview,
	})
}

func (f *FakeService) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No file uploaded"})
		return
	}
	_ = file.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadedNames = append(f.uploadedNames, header.Filename)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": f.uploaded})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
