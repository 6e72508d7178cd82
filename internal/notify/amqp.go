package notify

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// AMQP publishes events on a fanout exchange. Each subscriber binds its
// own exclusive queue.
type AMQP struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

// NewAMQP dials url and declares the fanout exchange.
func NewAMQP(url, exchange string, log zerolog.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQP{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish sends ev to the exchange.
func (a *AMQP) Publish(ctx context.Context, ev Event) error {
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = a.channel.PublishWithContext(pubCtx, a.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", a.exchange, err)
	}
	return nil
}

// Subscribe binds an exclusive queue and delivers events until ctx ends.
func (a *AMQP) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", a.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				ev, err := Decode(d.Body)
				if err != nil {
					a.log.Debug().Err(err).Msg("ignoring notification")
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

// Close shuts the channel and connection.
func (a *AMQP) Close() error {
	_ = a.channel.Close()
	return a.conn.Close()
}
