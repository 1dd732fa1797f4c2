package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// RedisSink publishes notifications as JSON on the channel "<prefix>:<userID>".
type RedisSink struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSink creates a sink publishing through client.
func NewRedisSink(client redis.UniversalClient, prefix string) *RedisSink {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "bank-clone:notifications"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisSink{client: client, prefix: trimmedPrefix}
}

// Channel returns the pub/sub channel for userID.
func (s *RedisSink) Channel(userID string) string {
	return s.prefix + ":" + userID
}

// Deliver publishes n to its user's channel.
func (s *RedisSink) Deliver(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
