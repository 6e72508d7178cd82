package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendAMQP  = "amqp"
)

// Settings selects and addresses a backend.
type Settings struct {
	Backend  string
	RedisURL string
	AMQPURL  string
	Channel  string
}

// Open returns the configured backend. BackendNone yields an in-process hub.
func Open(ctx context.Context, s Settings, log zerolog.Logger) (Notifier, error) {
	switch s.Backend {
	case "", BackendNone:
		return NewHub(), nil
	case BackendRedis:
		return NewRedis(ctx, s.RedisURL, s.Channel, log)
	case BackendAMQP:
		return NewAMQP(s.AMQPURL, s.Channel, log)
	default:
		return nil, fmt.Errorf("unknown notify backend %q", s.Backend)
	}
}
