package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"atlas/internal/domain"
)

const exchangeName = "bookings.events"

// Publisher emits booking transition events to a topic exchange. It
// satisfies the booking module's event sink.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) BookingCreated(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, EventBookingCreated, b)
}

func (p *Publisher) BookingCancelled(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, EventBookingCancelled, b)
}

func (p *Publisher) BookingRescheduled(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, EventBookingRescheduled, b)
}

func (p *Publisher) publish(ctx context.Context, eventType string, b *domain.Booking) error {
	env := EventEnvelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    payloadFrom(b),
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.channel.PublishWithContext(ctx, exchangeName, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
