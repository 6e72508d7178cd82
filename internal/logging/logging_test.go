package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestConsoleLoggerRespectsLevel verifies console output filters by level.
func TestConsoleLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(Options{Level: "warn", Console: true, Stderr: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closeLog()
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

// TestFileLoggerWritesJSON verifies file logging creates the directory.
func TestFileLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "intervue.log")
	log, closeLog, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info().Int("interview_id", 3).Msg("started")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"interview_id":3`) {
		t.Fatalf("expected structured field, got %s", data)
	}
}

// TestDefaultDiscards verifies the live-mode default writes nothing.
func TestDefaultDiscards(t *testing.T) {
	log, _, err := New(Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if log.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got %v", log.GetLevel())
	}
	if _, _, err := New(Options{Level: "shouty"}); err == nil {
		t.Fatalf("expected level error")
	}
}
