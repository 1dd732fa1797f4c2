package notify

import (
	"context"
	"fmt"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
	"github.com/sufyan123ayaz/Bank-Clone/pkg/rabbitmq"
)

// BrokerSink publishes notifications to a topic exchange with routing key
// "notification.<kind>".
type BrokerSink struct {
	publisher rabbitmq.Publisher
	exchange  string
}

// NewBrokerSink creates a sink publishing to exchange.
func NewBrokerSink(publisher rabbitmq.Publisher, exchange string) *BrokerSink {
	return &BrokerSink{publisher: publisher, exchange: exchange}
}

// Deliver publishes n.
func (s *BrokerSink) Deliver(ctx context.Context, n domain.Notification) error {
	routingKey := "notification." + string(n.Kind)
	if err := s.publisher.Publish(ctx, s.exchange, routingKey, n); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
