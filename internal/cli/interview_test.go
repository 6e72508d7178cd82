package cli

import (
	"fmt"
	"strings"
	"testing"

	"intervue/internal/testutil"
	"intervue/pkg/scoring"
)

// TestInterviewPlainRunsToCompletion answers all six questions from stdin and checks the journal.
func TestInterviewPlainRunsToCompletion(t *testing.T) {
	fake := testutil.StartFakeService(t)
	configPath := writeConfig(t, fake.BaseURL)
	input := "555-0100\n"
	for i := 1; i <= scoring.TotalQuestions; i++ {
		input += fmt.Sprintf("answer %d\n", i)
	}
	withStdin(t, input)

	var (
		code           int
		stdout, stderr string
	)
	testutil.RunWithTimeout(t, cliTimeout, func() {
		code, stdout, stderr = runCLI(t, "interview", "--config", configPath,
			"--name", "Ada", "--email", "ada@example.com", "--new")
	})
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, stderr)
	}
	for _, want := range []string{"Phone: ", "Question 1 of 6 [easy, 0:20]", "Question 6 of 6 [hard, 2:00]", "Final score: 7/10 (excellent)", "Summary: Solid fundamentals."} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in stdout, got %q", want, stdout)
		}
	}
	submits := fake.Submits()
	if len(submits) != scoring.TotalQuestions {
		t.Fatalf("expected %d submissions, got %d", scoring.TotalQuestions, len(submits))
	}
	for i, s := range submits {
		if s.Answer != fmt.Sprintf("answer %d", i+1) {
			t.Fatalf("submission %d: unexpected answer %q", i+1, s.Answer)
		}
		if s.TimeTaken < 0 || s.TimeTaken > 20 {
			t.Fatalf("submission %d: time taken %d out of range", i+1, s.TimeTaken)
		}
	}

	code, stdout, stderr = runCLI(t, "history", "--config", configPath)
	if code != ExitOK {
		t.Fatalf("history: expected exit %d, got %d (stderr %q)", ExitOK, code, stderr)
	}
	for _, want := range []string{"Ada", "6/6", "7/10 (excellent)"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("history: expected %q in %q", want, stdout)
		}
	}
}

// TestInterviewRejectsInvalidCandidate verifies validation runs before any interview starts.
func TestInterviewRejectsInvalidCandidate(t *testing.T) {
	fake := testutil.StartFakeService(t)
	configPath := writeConfig(t, fake.BaseURL)
	withStdin(t, "")

	code, _, stderr := runCLI(t, "interview", "--config", configPath,
		"--name", "Ada", "--email", "not-an-email", "--phone", "555-0100", "--new")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr, "email is not a valid email address") {
		t.Fatalf("expected validation message, got %q", stderr)
	}
	if len(fake.Submits()) != 0 {
		t.Fatalf("expected no submissions")
	}
}

// TestInterviewBeginFailure verifies a failed begin exits with the service error.
func TestInterviewBeginFailure(t *testing.T) {
	fake := testutil.StartFakeService(t)
	fake.FailBegin("no questions available")
	configPath := writeConfig(t, fake.BaseURL)
	withStdin(t, "")

	var (
		code   int
		stderr string
	)
	testutil.RunWithTimeout(t, cliTimeout, func() {
		code, _, stderr = runCLI(t, "interview", "--config", configPath,
			"--name", "Ada", "--email", "ada@example.com", "--phone", "555-0100", "--new")
	})
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(stderr, "no questions available") {
		t.Fatalf("expected service error, got %q", stderr)
	}
}

// TestInterviewAsksBeforeResuming verifies the welcome-back prompt resumes at the unfinished question.
func TestInterviewAsksBeforeResuming(t *testing.T) {
	fake := testutil.StartFakeService(t)
	fake.SetUnfinished(scoring.Unfinished{
		HasUnfinished:   true,
		InterviewID:     9,
		Candidate:       &scoring.CandidateRef{ID: 1, Name: "Ada", Email: "ada@example.com"},
		CurrentQuestion: 5,
	})
	configPath := writeConfig(t, fake.BaseURL)
	withStdin(t, "y\nfifth\nsixth\n")

	var (
		code           int
		stdout, stderr string
	)
	testutil.RunWithTimeout(t, cliTimeout, func() {
		code, stdout, stderr = runCLI(t, "interview", "--config", configPath,
			"--name", "Ada", "--email", "ada@example.com", "--phone", "555-0100")
	})
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, stderr)
	}
	for _, want := range []string{"Welcome back, Ada. Interview 9 is unfinished at question 5 of 6.", "Question 5 of 6", "Final score: 7/10"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in stdout, got %q", want, stdout)
		}
	}
	if got := len(fake.Submits()); got != 2 {
		t.Fatalf("expected 2 submissions after resume, got %d", got)
	}
}

// TestInterviewFlagConflicts verifies --resume-session and --new cannot be combined.
func TestInterviewFlagConflicts(t *testing.T) {
	code, _, stderr := runCLI(t, "interview", "--resume-session", "--new")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr, "mutually exclusive") {
		t.Fatalf("expected conflict message, got %q", stderr)
	}
}

// TestInterviewResumeSessionWithNothingToResume verifies the command stops with a
// clear message instead of beginning an interview without candidate details.
func TestInterviewResumeSessionWithNothingToResume(t *testing.T) {
	fake := testutil.StartFakeService(t)
	configPath := writeConfig(t, fake.BaseURL)
	withStdin(t, "")

	var (
		code           int
		stdout, stderr string
	)
	testutil.RunWithTimeout(t, cliTimeout, func() {
		code, stdout, stderr = runCLI(t, "interview", "--config", configPath, "--resume-session")
	})
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(stderr, "no unfinished interview to resume") {
		t.Fatalf("expected nothing-to-resume message, got %q", stderr)
	}
	if strings.Contains(stdout, "Question 1 of 6") || strings.Contains(stderr, "invalid candidate") {
		t.Fatalf("expected no interview to begin, got stdout %q stderr %q", stdout, stderr)
	}
}
