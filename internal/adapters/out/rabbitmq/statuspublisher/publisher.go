// Package statuspublisher emits order status changes to a RabbitMQ topic
// exchange. Routing keys have the form "order.status.<new status>".
package statuspublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fulfillment/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is declared when no exchange name is configured.
const DefaultExchange = "order_status_topic"

const routingKeyPrefix = "order.status."

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitStatusPublisher implements ports.StatusPublisher.
type RabbitStatusPublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
	conn     *amqp.Connection
}

// NewRabbitStatusPublisher publishes through an already opened channel.
func NewRabbitStatusPublisher(ch Channel, exchange string) *RabbitStatusPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &RabbitStatusPublisher{ch: ch, exchange: exchange}
}

// Dial connects to url, declares the durable topic exchange and returns a
// publisher that owns the connection.
func Dial(url, exchange string) (*RabbitStatusPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewRabbitStatusPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// PublishStatusChanged sends event as a persistent JSON message.
func (p *RabbitStatusPublisher) PublishStatusChanged(ctx context.Context, event ports.StatusChangedEvent) error {
	msg, err := toPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event.NewStatus), false, false, msg); err != nil {
		return fmt.Errorf("publish status of order %s: %w", event.OrderID, err)
	}
	return nil
}

// Close releases the connection opened by Dial. It is a no-op otherwise.
func (p *RabbitStatusPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// RoutingKey returns the topic routing key for a status name.
func RoutingKey(status string) string {
	return routingKeyPrefix + status
}

func toPublishing(event ports.StatusChangedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode status event: %w", err)
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.OrderID + ":" + event.NewStatus,
		Timestamp:    timestamp.UTC(),
		Type:         "order.status_changed",
		Body:         body,
	}, nil
}
