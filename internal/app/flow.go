/**
 * @description
 * TransferFlow is the transfer confirmation state machine:
 * editing -> pending_verification -> verifying -> completed, with "new transfer"
 * leading back to editing.
 *
 * @notes
 * - All state lives on the flow instance and is guarded by a mutex. Subscribers and
 *   the notifier are always called after the lock is released.
 * - The processing step is a timer scheduled on successful verification. Users cannot
 *   cancel it; only Close stops it during shutdown.
 * - Every change bumps the snapshot version. Subscribers only ever receive versions
 *   newer than the last one delivered, so a late publish cannot roll them back.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrProcessing        = errors.New("transfer is being processed")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrMalformedCode     = errors.New("verification code must be 6 digits")
	ErrFlowClosed        = errors.New("transfer flow is closed")
)

// DefaultProcessingDelay is the simulated processing time before a verified transfer completes.
const DefaultProcessingDelay = 2 * time.Second

// Notification messages surfaced by the flow.
const (
	msgDemoCode        = "Demo OTP: %s"
	msgInvalidCode     = "Invalid OTP. Please try again."
	msgTransferSuccess = "Transfer completed successfully!"
)

// Notifier delivers user-facing messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// FlowConfig configures a TransferFlow.
type FlowConfig struct {
	UserID          string
	ProcessingDelay time.Duration
}

// TransferFlow drives one user's transfer form through confirmation.
type TransferFlow struct {
	mu sync.Mutex

	id     uuid.UUID
	userID string
	delay  time.Duration

	generator CodeGenerator
	notifier  Notifier
	logger    *slog.Logger

	state       domain.FlowState
	fieldErrors domain.FieldErrors
	request     *domain.TransferRequest
	challenge   *domain.VerificationChallenge
	completion  *domain.TransferSummary
	updatedAt   time.Time

	version uint64
	timer   *time.Timer
	done    chan struct{}
	closed  bool
	closing chan struct{}

	publishMu   sync.Mutex
	published   uint64
	subscribers map[int]func(domain.FlowSnapshot)
	nextSubID   int
}

// NewTransferFlow creates a flow in the editing state.
func NewTransferFlow(cfg FlowConfig, generator CodeGenerator, notifier Notifier, logger *slog.Logger) *TransferFlow {
	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = 0
	}
	return &TransferFlow{
		id:          uuid.New(),
		userID:      cfg.UserID,
		delay:       cfg.ProcessingDelay,
		generator:   generator,
		notifier:    notifier,
		logger:      logger.With("user_id", cfg.UserID),
		state:       domain.FlowStateEditing,
		version:     1,
		updatedAt:   time.Now().UTC(),
		closing:     make(chan struct{}),
		subscribers: make(map[int]func(domain.FlowSnapshot)),
	}
}

// ID returns the flow identifier.
func (f *TransferFlow) ID() uuid.UUID {
	return f.id
}

// Submit validates form and, when every field passes, issues a verification
// challenge. A failing submit keeps the flow in editing and returns domain.FieldErrors.
func (f *TransferFlow) Submit(ctx context.Context, form domain.TransferForm) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	if err := f.guardLocked(domain.FlowStateEditing); err != nil {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, err
	}

	req, err := form.Validate()
	if err != nil {
		var fieldErrs domain.FieldErrors
		if !errors.As(err, &fieldErrs) {
			f.mu.Unlock()
			return domain.FlowSnapshot{}, fmt.Errorf("validate transfer form: %w", err)
		}
		f.fieldErrors = fieldErrs
		f.touchLocked()
		snap, subs := f.snapshotLocked(), f.subscribersLocked()
		f.mu.Unlock()

		f.publish(subs, snap)
		return snap, err
	}

	code := f.generator.Generate()
	f.request = &req
	f.challenge = domain.NewVerificationChallenge(code, req, time.Now().UTC())
	f.fieldErrors = nil
	f.state = domain.FlowStatePendingVerification
	f.touchLocked()
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Info("verification challenge issued", "flow_id", f.id, "amount", req.Amount.StringFixed(2))
	f.notify(ctx, domain.NotificationInfo, fmt.Sprintf(msgDemoCode, code))
	f.publish(subs, snap)
	return snap, nil
}

// Verify checks code against the pending challenge. A match starts the
// processing step; a mismatch keeps the challenge for another attempt.
func (f *TransferFlow) Verify(ctx context.Context, code string) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	if err := f.guardLocked(domain.FlowStatePendingVerification); err != nil {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, err
	}

	if !domain.IsWellFormedCode(code) {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, ErrMalformedCode
	}

	if !f.challenge.Consume(code) {
		snap := f.snapshotLocked()
		f.mu.Unlock()

		f.logger.Info("verification code mismatch", "flow_id", f.id)
		f.notify(ctx, domain.NotificationError, msgInvalidCode)
		return snap, ErrCodeMismatch
	}

	f.challenge = nil
	f.state = domain.FlowStateVerifying
	f.done = make(chan struct{})
	f.timer = time.AfterFunc(f.delay, f.complete)
	f.touchLocked()
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Info("transfer verified, processing", "flow_id", f.id)
	f.publish(subs, snap)
	return snap, nil
}

// complete runs when the processing timer fires. Done is closed only after the
// success notification and subscribers have run.
func (f *TransferFlow) complete() {
	f.mu.Lock()
	if f.closed || f.state != domain.FlowStateVerifying {
		f.mu.Unlock()
		return
	}

	f.state = domain.FlowStateCompleted
	f.completion = domain.NewTransferSummary(*f.request, domain.TransferStatusCompleted)
	f.timer = nil
	done := f.done
	f.touchLocked()
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Info("transfer completed", "flow_id", f.id, "amount", snap.Completion.AmountDisplay)
	f.notify(context.Background(), domain.NotificationSuccess, msgTransferSuccess)
	f.publish(subs, snap)
	close(done)
}

// NewTransfer clears the completed transfer and returns to editing.
func (f *TransferFlow) NewTransfer(ctx context.Context) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	if err := f.guardLocked(domain.FlowStateCompleted); err != nil {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, err
	}

	f.resetLocked()
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.publish(subs, snap)
	return snap, nil
}

// Abandon silently discards any request, challenge or completion and returns
// to editing. It is refused while a transfer is processing.
func (f *TransferFlow) Abandon() (domain.FlowSnapshot, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return domain.FlowSnapshot{}, ErrFlowClosed
	}
	if f.state == domain.FlowStateVerifying {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, ErrProcessing
	}
	if f.state == domain.FlowStateEditing && f.request == nil && len(f.fieldErrors) == 0 {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, nil
	}

	f.resetLocked()
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.publish(subs, snap)
	return snap, nil
}

// Snapshot returns the current read-only view of the flow.
func (f *TransferFlow) Snapshot() domain.FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// State returns the current state tag.
func (f *TransferFlow) State() domain.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastActivity returns when the flow last changed.
func (f *TransferFlow) LastActivity() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt
}

// Done returns a channel that is closed when the current processing step
// finishes. It is nil until a code has been verified.
func (f *TransferFlow) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Wait blocks until the processing step finishes and returns the completed snapshot.
func (f *TransferFlow) Wait(ctx context.Context) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	done := f.done
	switch {
	case f.closed && f.state != domain.FlowStateCompleted:
		f.mu.Unlock()
		return domain.FlowSnapshot{}, ErrFlowClosed
	case done == nil:
		state := f.state
		f.mu.Unlock()
		return domain.FlowSnapshot{}, fmt.Errorf("%w: nothing to wait for in %s", ErrInvalidTransition, state)
	}
	f.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return domain.FlowSnapshot{}, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed && f.state != domain.FlowStateCompleted {
		return domain.FlowSnapshot{}, ErrFlowClosed
	}
	return f.snapshotLocked(), nil
}

// Subscribe registers fn for every state change. The returned function removes it.
func (f *TransferFlow) Subscribe(fn func(domain.FlowSnapshot)) func() {
	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// Closed returns a channel that is closed once the flow has been closed.
func (f *TransferFlow) Closed() <-chan struct{} {
	return f.closing
}

// Close stops a pending processing timer and rejects further actions.
func (f *TransferFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.closing)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.state == domain.FlowStateVerifying && f.done != nil {
		close(f.done)
	}
	f.subscribers = make(map[int]func(domain.FlowSnapshot))
}

func (f *TransferFlow) guardLocked(want domain.FlowState) error {
	switch {
	case f.closed:
		return ErrFlowClosed
	case f.state == want:
		return nil
	case f.state == domain.FlowStateVerifying:
		return ErrProcessing
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTransition, f.state)
	}
}

func (f *TransferFlow) resetLocked() {
	f.state = domain.FlowStateEditing
	f.request = nil
	f.challenge = nil
	f.fieldErrors = nil
	f.completion = nil
	f.done = nil
	f.touchLocked()
}

func (f *TransferFlow) touchLocked() {
	f.version++
	f.updatedAt = time.Now().UTC()
}

func (f *TransferFlow) snapshotLocked() domain.FlowSnapshot {
	snap := domain.FlowSnapshot{
		FlowID:       f.id,
		State:        f.state,
		FieldErrors:  append(domain.FieldErrors{}, f.fieldErrors...),
		HasChallenge: f.challenge != nil && !f.challenge.Consumed(),
		Version:      f.version,
		UpdatedAt:    f.updatedAt,
	}
	if f.request != nil && f.state != domain.FlowStateCompleted {
		snap.Pending = domain.NewTransferSummary(*f.request, "")
	}
	if f.completion != nil {
		c := *f.completion
		snap.Completion = &c
	}
	return snap
}

func (f *TransferFlow) subscribersLocked() []func(domain.FlowSnapshot) {
	subs := make([]func(domain.FlowSnapshot), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (f *TransferFlow) notify(ctx context.Context, kind domain.NotificationKind, message string) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(ctx, domain.NewNotification(f.userID, kind, message))
}

// publish hands snap to subs unless a newer snapshot has already gone out.
func (f *TransferFlow) publish(subs []func(domain.FlowSnapshot), snap domain.FlowSnapshot) {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()
	if snap.Version <= f.published {
		return
	}
	f.published = snap.Version
	for _, fn := range subs {
		fn(snap)
	}
}
