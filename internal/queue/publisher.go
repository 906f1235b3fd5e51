package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends studio events to the broker.  Callers treat failures as
// non-fatal: the mutation has already been applied.
type Publisher interface {
	Publish(ctx context.Context, ev StudioEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, StudioEvent) error { return nil }

// AMQPPublisher dials the broker for each event.  Mutations in an admin
// dashboard are rare enough that a long-lived channel is not worth the
// reconnect bookkeeping.
type AMQPPublisher struct {
	URL   string
	Queue string
}

// defaultDialTimeout bounds connect and handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// dialTimeout is the time left on ctx, capped at defaultDialTimeout.
func dialTimeout(ctx context.Context) time.Duration {
	d := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// dial connects to the broker within the budget of ctx.
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return amqp.DialConfig(url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(dialTimeout(ctx)),
	})
}

// NewAMQPPublisher returns a publisher for the studio events queue.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: QueueName}
}

// Publish declares the queue (idempotent, durable) and sends ev as a
// persistent JSON message through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, ev StudioEvent) error {
	conn, err := dial(ctx, p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
