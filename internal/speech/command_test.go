package speech

import (
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"intervue/internal/testutil"
)

// TestNewRecognizerWithoutCommand verifies a blank or missing command disables voice.
func TestNewRecognizerWithoutCommand(t *testing.T) {
	if NewRecognizer("", nil, "", zerolog.Nop()).Available() {
		t.Fatalf("expected blank command unavailable")
	}
	if NewRecognizer("definitely-not-a-speech-binary", nil, "", zerolog.Nop()).Available() {
		t.Fatalf("expected missing command unavailable")
	}
}

// TestCommandRecognizerStreamsSegments runs a shell script as the recognizer.
func TestCommandRecognizerStreamsSegments(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := `printf '%s\n' '{"text":"hel","final":false}' '{"text":"hello ","final":true}'`
	rec := NewRecognizer("sh", []string{"-c", script}, "en-US", zerolog.Nop())
	if !rec.Available() {
		t.Fatalf("expected sh recognizer available")
	}
	stream, err := rec.Start(testutil.Context(t, 2*time.Second))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	capture := NewCapture(true)
	id, _ := capture.Start()
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		for {
			switch msg := Listen(id, stream)().(type) {
			case SegmentMsg:
				capture.Apply(msg.ID, msg.Segment)
				continue
			case EndMsg:
				capture.Stop()
			case ErrorMsg:
				t.Errorf("unexpected error: %v", msg.Err)
			}
			return
		}
	})
	if got := capture.Transcript(); got != "hello " {
		t.Fatalf("expected final transcript, got %q", got)
	}
}

// TestCommandRecognizerMalformedOutput verifies bad output is a runtime error.
func TestCommandRecognizerMalformedOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	rec := NewRecognizer("sh", []string{"-c", "echo not-json; sleep 5"}, "", zerolog.Nop())
	stream, err := rec.Start(testutil.Context(t, 3*time.Second))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		if _, ok := Listen(1, stream)().(ErrorMsg); !ok {
			t.Errorf("expected error message for malformed output")
		}
	})
}
