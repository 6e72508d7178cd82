package scoring

import (
	"context"
	"io"
)

// Service is the client-facing API of the Question/Scoring Service.
type Service interface {
	Begin(ctx context.Context, candidate Candidate) (BeginResponse, error)
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
	Resume(ctx context.Context, interviewID int) (ResumeResponse, error)
	CheckUnfinished(ctx context.Context) (Unfinished, error)
}

// Directory is the client-facing API of the Candidate Directory.
type Directory interface {
	ListCandidates(ctx context.Context) ([]CandidateSummary, error)
	CandidateDetail(ctx context.Context, candidateID int) (CandidateDetail, error)
}

// Intake is the client-facing API of the Resume Intake collaborator.
type Intake interface {
	UploadResume(ctx context.Context, filename string, body io.Reader) (Candidate, error)
}
