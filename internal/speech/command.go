package speech

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// CommandRecognizer runs an external speech-to-text program. The program
// writes one JSON object per line, {"text": "...", "final": true|false},
// and exits at end of speech.
type CommandRecognizer struct {
	Command string
	Args    []string
	Lang    string
	Log     zerolog.Logger
}

// NewRecognizer returns a command recognizer when command resolves on PATH,
// and Unsupported otherwise.
func NewRecognizer(command string, args []string, lang string, log zerolog.Logger) Recognizer {
	command = strings.TrimSpace(command)
	if command == "" {
		return Unsupported{}
	}
	if _, err := exec.LookPath(command); err != nil {
		log.Info().Str("command", command).Err(err).Msg("speech command not found; voice input disabled")
		return Unsupported{}
	}
	return &CommandRecognizer{Command: command, Args: args, Lang: lang, Log: log}
}

// Available reports true; construction already checked the command exists.
func (r *CommandRecognizer) Available() bool {
	return true
}

// Start launches the program and streams its segments.
func (r *CommandRecognizer) Start(ctx context.Context) (*Stream, error) {
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Env = os.Environ()
	if r.Lang != "" {
		cmd.Env = append(cmd.Env, "SPEECH_LANG="+r.Lang)
	}
	configureProcess(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("speech stdout: %w", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start speech command: %w", err)
	}

	var stopped atomic.Bool
	done := make(chan struct{})
	segments := make(chan Segment, 16)
	send := func(seg Segment) bool {
		select {
		case segments <- seg:
			return true
		case <-done:
			return false
		}
	}
	go func() {
		defer close(segments)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			seg, err := parseSegment(line)
			if err != nil {
				send(Segment{Err: err})
				terminate(cmd)
				_ = cmd.Wait()
				return
			}
			if !send(seg) {
				_ = cmd.Wait()
				return
			}
		}
		err := cmd.Wait()
		if err != nil && !stopped.Load() {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			r.Log.Warn().Err(err).Str("stderr", msg).Msg("speech command failed")
			send(Segment{Err: errors.New("speech recognition failed: " + msg)})
		}
	}()

	stop := func() {
		stopped.Store(true)
		close(done)
		terminate(cmd)
	}
	return NewStream(segments, stop), nil
}

func parseSegment(line string) (Segment, error) {
	var seg Segment
	if err := json.Unmarshal([]byte(line), &seg); err != nil {
		return Segment{}, fmt.Errorf("malformed speech output %q: %w", line, err)
	}
	return seg, nil
}
