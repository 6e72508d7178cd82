// Package journal keeps a local DuckDB record of interview sessions run
// from this machine.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"intervue/pkg/scoring"
)

// Start describes a begun or resumed interview.
type Start struct {
	InterviewID int
	Candidate   scoring.Candidate
	Resumed     bool
}

// Answer is one accepted submission.
type Answer struct {
	Question  scoring.Question
	Text      string
	TimeTaken int
}

// Session is one journaled interview with its answer count.
type Session struct {
	Key         string
	InterviewID int
	Name        string
	Email       string
	Resumed     bool
	StartedAt   time.Time
	CompletedAt *time.Time
	FinalScore  *float64
	Summary     *string
	Answers     int
}

// Journal appends session events to a DuckDB database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path. ":memory:" keeps it in memory.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal: path is empty")
	}
	dsn := path
	if path == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RecordStart opens a journal session and returns its key.
func (j *Journal) RecordStart(ctx context.Context, s Start) (string, error) {
	key := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (session_key, interview_id, candidate_name, candidate_email, resumed, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key, s.InterviewID, nullString(s.Candidate.Name), nullString(s.Candidate.Email), s.Resumed, j.now(),
	)
	if err != nil {
		return "", fmt.Errorf("record start: %w", err)
	}
	return key, nil
}

// RecordAnswer appends an accepted answer. A repeated question id replaces the earlier row.
func (j *Journal) RecordAnswer(ctx context.Context, key string, a Answer) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO answers (session_key, question_id, number, difficulty, time_limit, answer, time_taken, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key, a.Question.ID, a.Question.Number, string(a.Question.Difficulty), a.Question.TimeLimit, a.Text, a.TimeTaken, j.now(),
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// RecordCompletion stamps the session with its final score and summary.
func (j *Journal) RecordCompletion(ctx context.Context, key string, score float64, summary string) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE sessions SET completed_at = ?, final_score = ?, summary = ? WHERE session_key = ?`,
		j.now(), score, summary, key,
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record completion: unknown session %s", key)
	}
	return nil
}

// List returns the most recent sessions first, at most limit when limit > 0.
func (j *Journal) List(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT s.session_key, s.interview_id, s.candidate_name, s.candidate_email, s.resumed,
		       s.started_at, s.completed_at, s.final_score, s.summary, COUNT(a.question_id)
		FROM sessions s
		LEFT JOIN answers a ON a.session_key = s.session_key
		GROUP BY ALL
		ORDER BY s.started_at DESC, s.session_key`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var (
			s           Session
			name, email sql.NullString
			completed   sql.NullTime
			score       sql.NullFloat64
			summary     sql.NullString
		)
		if err := rows.Scan(&s.Key, &s.InterviewID, &name, &email, &s.Resumed,
			&s.StartedAt, &completed, &score, &summary, &s.Answers); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.Name = name.String
		s.Email = email.String
		if completed.Valid {
			s.CompletedAt = &completed.Time
		}
		if score.Valid {
			s.FinalScore = &score.Float64
		}
		if summary.Valid {
			s.Summary = &summary.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
