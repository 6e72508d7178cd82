package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis publishes events on a pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

// NewRedis connects to url and verifies the server answers.
func NewRedis(ctx context.Context, url, channel string, log zerolog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Redis{client: client, channel: channel, log: log}, nil
}

// Publish sends ev to the channel.
func (r *Redis) Publish(ctx context.Context, ev Event) error {
	payload, err := Encode(ev)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// Subscribe listens on the channel until ctx ends.
func (r *Redis) Subscribe(ctx context.Context) (<-chan Event, error) {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		defer ps.Close()
		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				ev, err := Decode([]byte(msg.Payload))
				if err != nil {
					r.log.Debug().Err(err).Msg("ignoring notification")
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return out, nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
