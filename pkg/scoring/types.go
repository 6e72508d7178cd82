package scoring

import (
	"errors"
	"time"
)

// Difficulty is the service-assigned difficulty of a question.
type Difficulty string

const (
	// DifficultyEasy is used for questions 1 and 2.
	DifficultyEasy Difficulty = "easy"
	// DifficultyMedium is used for questions 3 and 4.
	DifficultyMedium Difficulty = "medium"
	// DifficultyHard is used for questions 5 and 6.
	DifficultyHard Difficulty = "hard"
)

// TotalQuestions is the number of questions in one interview.
const TotalQuestions = 6

// CanonicalTimeLimit returns the time limit the service assigns for a difficulty.
// Clients display it in the interview rules but always trust Question.TimeLimit.
func CanonicalTimeLimit(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 120
	default:
		return 0
	}
}

// Question is an immutable prompt issued by the scoring service.
type Question struct {
	ID         int        `json:"id"`
	Number     int        `json:"number"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"`
}

// BeginResponse is returned when an interview starts.
type BeginResponse struct {
	InterviewID int      `json:"interview_id"`
	Question    Question `json:"question"`
}

// SubmitRequest carries one answer to the scoring service.
type SubmitRequest struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
	TimeTaken  int    `json:"time_taken"`
}

// SubmitResult is either a next question or the interview completion.
type SubmitResult struct {
	InterviewComplete bool      `json:"interview_complete"`
	NextQuestion      *Question `json:"next_question,omitempty"`
	FinalScore        float64   `json:"final_score"`
	Summary           string    `json:"summary"`
}

// ErrMalformedResult reports a submit result carrying neither a next question nor completion.
var ErrMalformedResult = errors.New("scoring: submit result has neither next question nor completion")

// Check validates the shape of a submit result.
func (r SubmitResult) Check() error {
	if r.InterviewComplete {
		return nil
	}
	if r.NextQuestion == nil || r.NextQuestion.ID == 0 {
		return ErrMalformedResult
	}
	return nil
}

// ResumeResponse is returned when reattaching to an in-progress interview.
type ResumeResponse struct {
	Question              Question `json:"question"`
	CurrentQuestionNumber int      `json:"current_question_number,omitempty"`
}

// CandidateRef is the short candidate reference inside an unfinished-interview check.
type CandidateRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Unfinished describes an interview that was started but never completed.
type Unfinished struct {
	HasUnfinished   bool          `json:"has_unfinished"`
	InterviewID     int           `json:"interview_id,omitempty"`
	Candidate       *CandidateRef `json:"candidate,omitempty"`
	StartedAt       string        `json:"started_at,omitempty"`
	CurrentQuestion int           `json:"current_question,omitempty"`
}

// StartedTime parses StartedAt, returning the zero time when absent or malformed.
func (u Unfinished) StartedTime() time.Time {
	return parseTimestamp(u.StartedAt)
}

// CandidateSummary is one row of the candidate directory.
type CandidateSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	FinalScore  float64 `json:"final_score"`
	Status      string  `json:"status"`
	CompletedAt *string `json:"completed_at"`
}

// QuestionRecord is one answered question inside a persisted interview.
type QuestionRecord struct {
	ID         int        `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	Number     int        `json:"number"`
	Answer     *string    `json:"answer"`
	Score      *float64   `json:"score"`
	TimeTaken  *int       `json:"time_taken"`
}

// InterviewRecord is the persisted record of a candidate's latest interview.
type InterviewRecord struct {
	ID          int              `json:"id"`
	Status      string           `json:"status"`
	StartedAt   string           `json:"started_at"`
	CompletedAt *string          `json:"completed_at"`
	Summary     *string          `json:"summary"`
	FinalScore  float64          `json:"final_score"`
	Questions   []QuestionRecord `json:"questions"`
}

// CandidateDetail is a candidate with its full interview record.
type CandidateDetail struct {
	Candidate Candidate       `json:"candidate"`
	Interview InterviewRecord `json:"interview"`
}

// parseTimestamp accepts the service's ISO-8601 timestamps with or without zone.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
