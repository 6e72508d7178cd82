package speech

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrUnsupported is returned when the platform has no speech recognition.
var ErrUnsupported = errors.New("speech recognition is not supported on this platform")

// Segment is one recognition result. Final segments are stable; interim
// segments are overwritten by the next update.
type Segment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
	Err   error  `json:"-"`
}

// Recognizer is a platform speech-to-text capability.
type Recognizer interface {
	// Available reports whether continuous recognition can be started.
	Available() bool
	// Start begins continuous capture with interim results.
	Start(ctx context.Context) (*Stream, error)
}

// Unsupported is the recognizer for platforms without speech-to-text.
type Unsupported struct{}

// Available always reports false.
func (Unsupported) Available() bool {
	return false
}

// Start always fails with ErrUnsupported.
func (Unsupported) Start(context.Context) (*Stream, error) {
	return nil, ErrUnsupported
}

// Stream delivers segments until end-of-speech closes the channel.
type Stream struct {
	segments <-chan Segment
	stop     func()
	once     sync.Once
}

// NewStream wraps a segment channel and a stop function.
func NewStream(segments <-chan Segment, stop func()) *Stream {
	return &Stream{segments: segments, stop: stop}
}

// Stop ends capture. Safe to call repeatedly.
func (s *Stream) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}

// SegmentMsg carries a recognition result for capture session ID.
type SegmentMsg struct {
	ID      int
	Segment Segment
}

// EndMsg signals end-of-speech for capture session ID.
type EndMsg struct {
	ID int
}

// ErrorMsg signals a recognizer runtime error for capture session ID.
type ErrorMsg struct {
	ID  int
	Err error
}

// Listen waits for the next event on a stream.
func Listen(id int, s *Stream) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return EndMsg{ID: id}
		}
		seg, ok := <-s.segments
		if !ok {
			return EndMsg{ID: id}
		}
		if seg.Err != nil {
			return ErrorMsg{ID: id, Err: seg.Err}
		}
		return SegmentMsg{ID: id, Segment: seg}
	}
}
