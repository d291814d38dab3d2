// Package notify publishes domain events for the out-of-process notification
// service. Delivery is best-effort: a failed publish is logged and never rolls
// back the commerce or booking transaction that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Event types emitted by the core services.
const (
	EventOrderCreated          = "order.created"
	EventOrderConfirmed        = "order.confirmed"
	EventOrderCancelled        = "order.cancelled"
	EventConsultationBooked    = "consultation.booked"
	EventConsultationCancelled = "consultation.cancelled"
	EventConsultationCompleted = "consultation.completed"
)

// Event is the JSON payload placed on the notification queue.
type Event struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	EntityID  uint      `json:"entity_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Dispatcher hands an event to the notification transport.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt Event) error
}

// AMQPDispatcher publishes events to a durable RabbitMQ queue.
type AMQPDispatcher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// NewAMQPDispatcher connects to the broker and declares the queue.
func NewAMQPDispatcher(url, queue string, log *zap.Logger) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue (idempotent)
	if _, err := channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPDispatcher{
		conn:    conn,
		channel: channel,
		queue:   queue,
		log:     log,
	}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = d.channel.PublishWithContext(ctx,
		"",      // default exchange
		d.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.CreatedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	d.log.Info("Notification event published",
		zap.String("type", evt.Type),
		zap.Uint("user_id", evt.UserID),
		zap.Uint("entity_id", evt.EntityID))
	return nil
}

func (d *AMQPDispatcher) Close() {
	if d.channel != nil {
		d.channel.Close()
	}
	if d.conn != nil {
		d.conn.Close()
	}
}

// NopDispatcher drops every event. Used when the broker is disabled and in tests.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, Event) error { return nil }
