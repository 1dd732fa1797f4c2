/**
 * @description
 * Notification delivery. The transfer flow and the account service hand every
 * user-facing message to a Fanout, which delivers it to each configured sink.
 * Delivery is fire-and-forget: sink failures are logged and never reach the caller.
 */
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// deliveryTimeout bounds a single sink delivery.
const deliveryTimeout = 5 * time.Second

// Sink delivers a notification somewhere.
type Sink interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// Fanout delivers each notification to every sink in order.
type Fanout struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewFanout creates a Fanout over sinks.
func NewFanout(logger *slog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

// Notify delivers n to every sink. It detaches from ctx cancellation so a
// message raised at the end of a request is still delivered.
func (f *Fanout) Notify(ctx context.Context, n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			f.logger.Warn("notification delivery failed",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"kind", n.Kind,
				"error", err,
			)
		}
	}
}
