package speech

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RecordingTickMsg advances the recording-elapsed counter for capture session ID.
type RecordingTickMsg struct {
	ID int
}

// Capture tracks one question's recording state and transcript.
// It is independent of the question countdown.
type Capture struct {
	supported bool
	recording bool
	id        int
	final     string
	interim   string
	elapsed   int
}

// NewCapture returns capture state for a platform with or without speech support.
func NewCapture(supported bool) Capture {
	return Capture{supported: supported}
}

// Supported reports whether recording can start.
func (c Capture) Supported() bool {
	return c.supported
}

// Recording reports whether capture is active.
func (c Capture) Recording() bool {
	return c.recording
}

// ID returns the current capture session id.
func (c Capture) ID() int {
	return c.id
}

// Elapsed returns whole seconds recorded in the current session.
func (c Capture) Elapsed() int {
	return c.elapsed
}

// Transcript returns the final transcript followed by the interim segment.
func (c Capture) Transcript() string {
	return c.final + c.interim
}

// Start resets the transcript and elapsed counter and opens a new session.
func (c *Capture) Start() (int, error) {
	if !c.supported {
		return c.id, ErrUnsupported
	}
	c.id++
	c.recording = true
	c.final = ""
	c.interim = ""
	c.elapsed = 0
	return c.id, nil
}

// Apply folds a segment into the transcript. Segments for another session
// or after Stop are dropped.
func (c *Capture) Apply(id int, seg Segment) bool {
	if !c.recording || id != c.id {
		return false
	}
	if seg.Final {
		c.final += seg.Text
		c.interim = ""
	} else {
		c.interim = seg.Text
	}
	return true
}

// Stop ends the session and keeps the transcript as-is. It returns false
// when nothing was recording.
func (c *Capture) Stop() bool {
	if !c.recording {
		return false
	}
	c.recording = false
	return true
}

// Tick advances the elapsed counter for an active session.
func (c *Capture) Tick(id int) bool {
	if !c.recording || id != c.id {
		return false
	}
	c.elapsed++
	return true
}

// Clear discards the transcript for a new question.
func (c *Capture) Clear() {
	c.final = ""
	c.interim = ""
	c.elapsed = 0
}

// TickRecording schedules the next elapsed tick for session id. A
// non-positive interval means one second.
func TickRecording(id int, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RecordingTickMsg{ID: id}
	})
}
