/**
 * @description
 * RabbitMQ publisher for user-facing notification events. Each exchange is declared
 * as a durable topic exchange the first time it is used.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher is the interface implemented by event publishers.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel

	mu       sync.Mutex
	declared map[string]bool
}

// EventProducerFallback logs instead of publishing. Used when RabbitMQ is not configured
// or unreachable.
type EventProducerFallback struct {
	Logger *slog.Logger
}

func (p *EventProducerFallback) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("mq fallback: event not published", "exchange", exchange, "routing_key", routingKey, "body", body)
	return nil
}

func (p *EventProducerFallback) Close() {}

// ErrUnsupportedScheme is returned for broker URLs that are not amqp:// or amqps://.
var ErrUnsupportedScheme = errors.New("rabbitmq url must use amqp or amqps")

// normalizeBrokerURL strips quotes and a leading "KEY=" left behind by env tooling.
func normalizeBrokerURL(raw string) (string, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	if key, value, ok := strings.Cut(s, "="); ok && !strings.Contains(key, "://") {
		s = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse rabbitmq url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "amqp", "amqps":
		return s, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// NewEventProducer dials RabbitMQ and opens a channel.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := normalizeBrokerURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	return &EventProducer{conn: conn, channel: ch, declared: make(map[string]bool)}, nil
}

// Publish sends body as JSON to exchange with routingKey.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errors.New("rabbitmq channel not initialized")
	}

	if !p.declared[exchange] {
		if err := p.channel.ExchangeDeclare(
			exchange,
			"topic",
			true,
			false,
			false,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
		p.declared[exchange] = true
	}

	return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        payload,
		Timestamp:   time.Now(),
	})
}

// Close releases the channel and the connection. Later publishes fail.
func (p *EventProducer) Close() {
	p.mu.Lock()
	ch, conn := p.channel, p.conn
	p.channel, p.conn = nil, nil
	p.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
}
