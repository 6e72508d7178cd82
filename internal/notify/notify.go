// Package notify carries the "candidates updated" signal between the
// interview client and directory observers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CandidatesUpdated is the only event kind on the channel.
const CandidatesUpdated = "candidates_updated"

// ErrUnknownEvent is returned when decoding an event of another kind.
var ErrUnknownEvent = errors.New("notify: unknown event type")

// Event is a notification with a type discriminator and no payload.
type Event struct {
	Type string `json:"type"`
}

// Updated returns the candidates-updated event.
func Updated() Event {
	return Event{Type: CandidatesUpdated}
}

// Encode renders an event as JSON.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode parses an event and rejects unknown kinds.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type != CandidatesUpdated {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return ev, nil
}

// Publisher announces events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber delivers events until ctx ends, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Notifier is a full notification backend.
type Notifier interface {
	Publisher
	Subscriber
	Close() error
}
