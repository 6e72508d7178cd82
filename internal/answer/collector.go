package answer

import (
	"errors"
	"strings"
)

// Mode selects which buffer is read at submission.
type Mode string

const (
	// ModeText reads the typed text buffer.
	ModeText Mode = "text"
	// ModeVoice reads the speech transcript buffer.
	ModeVoice Mode = "voice"
)

// ErrVoiceUnavailable is returned when voice mode is selected without speech support.
var ErrVoiceUnavailable = errors.New("voice input is not available on this platform")

// Answer is the value submitted for a question, tagged with its source.
type Answer struct {
	Mode  Mode
	Value string
}

// Empty reports whether the answer has no content after trimming.
func (a Answer) Empty() bool {
	return strings.TrimSpace(a.Value) == ""
}

// Collector holds the in-progress answer for the current question.
// Both buffers survive mode switches; only the active one is resolved.
type Collector struct {
	mode       Mode
	text       string
	transcript string
	voiceOK    bool
}

// NewCollector starts in text mode. voiceAvailable reflects speech capability.
func NewCollector(voiceAvailable bool) Collector {
	return Collector{mode: ModeText, voiceOK: voiceAvailable}
}

// Mode returns the active input mode.
func (c Collector) Mode() Mode {
	return c.mode
}

// VoiceAvailable reports whether voice mode can be selected.
func (c Collector) VoiceAvailable() bool {
	return c.voiceOK
}

// SetMode switches the active buffer without clearing either one.
func (c Collector) SetMode(mode Mode) (Collector, error) {
	switch mode {
	case ModeText:
	case ModeVoice:
		if !c.voiceOK {
			return c, ErrVoiceUnavailable
		}
	default:
		return c, errors.New("unknown input mode " + string(mode))
	}
	c.mode = mode
	return c, nil
}

// SetText replaces the typed buffer.
func (c Collector) SetText(text string) Collector {
	c.text = text
	return c
}

// SetTranscript replaces the speech buffer with the latest accumulated transcript.
func (c Collector) SetTranscript(transcript string) Collector {
	c.transcript = transcript
	return c
}

// Text returns the typed buffer.
func (c Collector) Text() string {
	return c.text
}

// Transcript returns the speech buffer.
func (c Collector) Transcript() string {
	return c.transcript
}

// Resolve returns the active mode's buffer. The other buffer is never consulted.
func (c Collector) Resolve() Answer {
	if c.mode == ModeVoice {
		return Answer{Mode: ModeVoice, Value: c.transcript}
	}
	return Answer{Mode: ModeText, Value: c.text}
}

// Ready reports whether a manual submission is allowed.
func (c Collector) Ready() bool {
	return !c.Resolve().Empty()
}

// Reset discards both buffers for a new question. The mode is kept.
func (c Collector) Reset() Collector {
	c.text = ""
	c.transcript = ""
	return c
}
