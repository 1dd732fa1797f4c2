package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// FlowRegistry keeps one TransferFlow per signed-in user.
type FlowRegistry struct {
	mu    sync.Mutex
	flows map[string]*TransferFlow

	delay     time.Duration
	generator CodeGenerator
	notifier  Notifier
	logger    *slog.Logger
}

// NewFlowRegistry creates an empty registry. Every flow it creates shares
// generator and notifier.
func NewFlowRegistry(processingDelay time.Duration, generator CodeGenerator, notifier Notifier, logger *slog.Logger) *FlowRegistry {
	return &FlowRegistry{
		flows:     make(map[string]*TransferFlow),
		delay:     processingDelay,
		generator: generator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Flow returns the user's flow, creating it on first use.
func (r *FlowRegistry) Flow(userID string) *TransferFlow {
	r.mu.Lock()
	defer r.mu.Unlock()

	if flow, ok := r.flows[userID]; ok {
		return flow
	}
	flow := NewTransferFlow(FlowConfig{UserID: userID, ProcessingDelay: r.delay}, r.generator, r.notifier, r.logger)
	r.flows[userID] = flow
	return flow
}

// Discard abandons and drops the user's flow. A flow that is still processing
// is left to finish and is collected by a later sweep.
func (r *FlowRegistry) Discard(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	flow, ok := r.flows[userID]
	if !ok {
		return nil
	}
	if _, err := flow.Abandon(); err != nil && !errors.Is(err, ErrFlowClosed) {
		return err
	}
	flow.Close()
	delete(r.flows, userID)
	return nil
}

// SweepIdle drops editing and completed flows that have not changed for
// maxIdle. A flow holding a challenge or still processing is never dropped;
// challenges do not expire.
func (r *FlowRegistry) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for userID, flow := range r.flows {
		switch flow.State() {
		case domain.FlowStatePendingVerification, domain.FlowStateVerifying:
			continue
		}
		if flow.LastActivity().After(cutoff) {
			continue
		}
		flow.Close()
		delete(r.flows, userID)
		removed++
	}
	return removed
}

// Len returns the number of live flows.
func (r *FlowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Close stops every flow.
func (r *FlowRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, flow := range r.flows {
		flow.Close()
		delete(r.flows, userID)
	}
}
