package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, string(s.Kind)+": "+s.Message)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFlow(t *testing.T, codes ...string) (*TransferFlow, *recordingNotifier, *sequenceGenerator) {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"123456"}
	}
	gen := &sequenceGenerator{codes: codes}
	notifier := &recordingNotifier{}
	flow := NewTransferFlow(FlowConfig{UserID: "user-1", ProcessingDelay: 10 * time.Millisecond}, gen, notifier, discardLogger())
	t.Cleanup(flow.Close)
	return flow, notifier, gen
}

func scenarioForm(account, amount string) domain.TransferForm {
	return domain.TransferForm{RecipientAccount: account, RecipientName: "Jo", Amount: amount}
}

func waitCompleted(t *testing.T, flow *TransferFlow) domain.FlowSnapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := flow.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestTransferFlow_ScenarioWrongCodeThenCorrectCode(t *testing.T) {
	flow, notifier, _ := newTestFlow(t, "482913")
	ctx := context.Background()

	snap, err := flow.Submit(ctx, scenarioForm("1234567890", "50.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.FlowStatePendingVerification, snap.State)
	assert.True(t, snap.HasChallenge)
	require.NotNil(t, snap.Pending)
	assert.Equal(t, "$50.00", snap.Pending.AmountDisplay)

	snap, err = flow.Verify(ctx, "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, domain.FlowStatePendingVerification, snap.State)
	assert.True(t, snap.HasChallenge, "a mismatch must keep the challenge")

	snap, err = flow.Verify(ctx, "482913")
	require.NoError(t, err)
	assert.Equal(t, domain.FlowStateVerifying, snap.State)
	assert.False(t, snap.HasChallenge)

	done := waitCompleted(t, flow)
	assert.Equal(t, domain.FlowStateCompleted, done.State)
	require.NotNil(t, done.Completion)
	assert.Equal(t, "$50.00", done.Completion.AmountDisplay)
	assert.Equal(t, "Jo", done.Completion.RecipientName)
	assert.Equal(t, "1234567890", done.Completion.RecipientAccount)
	assert.Equal(t, "Completed", done.Completion.Status)

	assert.Equal(t, []string{
		"info: Demo OTP: 482913",
		"error: Invalid OTP. Please try again.",
		"success: Transfer completed successfully!",
	}, notifier.messages())
}

func TestTransferFlow_ScenarioShortAccountIsRejected(t *testing.T) {
	flow, notifier, gen := newTestFlow(t)

	snap, err := flow.Submit(context.Background(), scenarioForm("123", "50.00"))

	var fieldErrs domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, domain.FieldErrors{
		{Field: domain.FieldRecipientAccount, Message: "Account number must be at least 10 digits"},
	}, snap.FieldErrors)
	assert.Equal(t, domain.FlowStateEditing, snap.State)
	assert.False(t, snap.HasChallenge)
	assert.Zero(t, gen.calls)
	assert.Empty(t, notifier.messages())
}

func TestTransferFlow_ScenarioAmountOverLimitIsRejected(t *testing.T) {
	flow, _, gen := newTestFlow(t)

	snap, err := flow.Submit(context.Background(), scenarioForm("1234567890", "15000"))

	var fieldErrs domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	msg, ok := snap.FieldErrors.Get(domain.FieldAmount)
	assert.True(t, ok)
	assert.Equal(t, "Maximum transfer amount is $10,000", msg)
	assert.Equal(t, domain.FlowStateEditing, snap.State)
	assert.False(t, snap.HasChallenge)
	assert.Zero(t, gen.calls)
}

func TestTransferFlow_PassingSubmitClearsPreviousFieldErrors(t *testing.T) {
	flow, _, gen := newTestFlow(t)
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("123", "50"))
	require.Error(t, err)

	snap, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	assert.Empty(t, snap.FieldErrors)
	assert.NotNil(t, snap.FieldErrors)
	assert.Equal(t, 1, gen.calls, "exactly one challenge per passing submit")
}

func TestTransferFlow_MalformedCodeChangesNothing(t *testing.T) {
	flow, notifier, _ := newTestFlow(t)
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	before := flow.Snapshot()

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		snap, err := flow.Verify(ctx, code)
		assert.ErrorIs(t, err, ErrMalformedCode, "code %q", code)
		assert.Equal(t, before, snap)
	}
	assert.Equal(t, []string{"info: Demo OTP: 123456"}, notifier.messages())
}

func TestTransferFlow_AnyOtherCodeKeepsPending(t *testing.T) {
	flow, _, _ := newTestFlow(t, "555555")
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)

	for _, code := range []string{"100000", "555554", "999999", "555556"} {
		snap, err := flow.Verify(ctx, code)
		assert.ErrorIs(t, err, ErrCodeMismatch)
		assert.Equal(t, domain.FlowStatePendingVerification, snap.State)
	}
}

func TestTransferFlow_ActionsRefusedWhileProcessing(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"123456"}}
	flow := NewTransferFlow(FlowConfig{UserID: "user-1", ProcessingDelay: time.Hour}, gen, nil, discardLogger())
	t.Cleanup(flow.Close)
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	_, err = flow.Verify(ctx, "123456")
	require.NoError(t, err)

	_, err = flow.Submit(ctx, scenarioForm("1234567890", "50"))
	assert.ErrorIs(t, err, ErrProcessing)
	_, err = flow.Verify(ctx, "123456")
	assert.ErrorIs(t, err, ErrProcessing)
	_, err = flow.NewTransfer(ctx)
	assert.ErrorIs(t, err, ErrProcessing)
	_, err = flow.Abandon()
	assert.ErrorIs(t, err, ErrProcessing)
	assert.Equal(t, domain.FlowStateVerifying, flow.State())
}

func TestTransferFlow_InvalidTransitions(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()

	_, err := flow.Verify(ctx, "123456")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = flow.NewTransfer(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = flow.Wait(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	_, err = flow.Submit(ctx, scenarioForm("1234567890", "50"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransferFlow_NewTransferIssuesFreshCode(t *testing.T) {
	flow, notifier, _ := newTestFlow(t, "111111", "222222")
	ctx := context.Background()
	form := scenarioForm("1234567890", "50")

	_, err := flow.Submit(ctx, form)
	require.NoError(t, err)
	_, err = flow.Verify(ctx, "111111")
	require.NoError(t, err)
	waitCompleted(t, flow)

	snap, err := flow.NewTransfer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowStateEditing, snap.State)
	assert.Nil(t, snap.Pending)
	assert.Nil(t, snap.Completion)
	assert.False(t, snap.HasChallenge)
	assert.Empty(t, snap.FieldErrors)
	assert.Nil(t, flow.Done())

	_, err = flow.Submit(ctx, form)
	require.NoError(t, err)

	_, err = flow.Verify(ctx, "111111")
	assert.ErrorIs(t, err, ErrCodeMismatch, "the previous code must not verify the new challenge")
	_, err = flow.Verify(ctx, "222222")
	require.NoError(t, err)
	waitCompleted(t, flow)

	assert.Contains(t, notifier.messages(), "info: Demo OTP: 222222")
}

func TestTransferFlow_AbandonDiscardsPendingChallenge(t *testing.T) {
	flow, _, _ := newTestFlow(t, "123456")
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)

	snap, err := flow.Abandon()
	require.NoError(t, err)
	assert.Equal(t, domain.FlowStateEditing, snap.State)
	assert.False(t, snap.HasChallenge)
	assert.Nil(t, snap.Pending)

	_, err = flow.Verify(ctx, "123456")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransferFlow_SubscribersSeeEveryStateChange(t *testing.T) {
	flow, _, _ := newTestFlow(t, "123456")
	ctx := context.Background()

	var mu sync.Mutex
	var states []domain.FlowState
	unsubscribe := flow.Subscribe(func(s domain.FlowSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s.State)
	})

	_, _ = flow.Submit(ctx, scenarioForm("123", "50"))
	_, _ = flow.Submit(ctx, scenarioForm("1234567890", "50"))
	_, _ = flow.Verify(ctx, "123456")
	waitCompleted(t, flow)

	unsubscribe()
	_, _ = flow.NewTransfer(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.FlowState{
		domain.FlowStateEditing,
		domain.FlowStatePendingVerification,
		domain.FlowStateVerifying,
		domain.FlowStateCompleted,
	}, states)
}

func TestTransferFlow_DoneClosesOnCompletion(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	assert.Nil(t, flow.Done())

	_, err = flow.Verify(ctx, "123456")
	require.NoError(t, err)

	select {
	case <-flow.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("processing did not finish")
	}
	assert.Equal(t, domain.FlowStateCompleted, flow.State())
}

func TestTransferFlow_CloseStopsProcessing(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"123456"}}
	notifier := &recordingNotifier{}
	flow := NewTransferFlow(FlowConfig{UserID: "user-1", ProcessingDelay: 50 * time.Millisecond}, gen, notifier, discardLogger())
	ctx := context.Background()

	_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	_, err = flow.Verify(ctx, "123456")
	require.NoError(t, err)

	flow.Close()

	_, err = flow.Wait(ctx)
	assert.ErrorIs(t, err, ErrFlowClosed)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, domain.FlowStateVerifying, flow.State())
	assert.Equal(t, []string{"info: Demo OTP: 123456"}, notifier.messages())

	_, err = flow.Submit(ctx, scenarioForm("1234567890", "50"))
	assert.ErrorIs(t, err, ErrFlowClosed)
}

func TestTransferFlow_WaitHonoursContext(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"123456"}}
	flow := NewTransferFlow(FlowConfig{UserID: "user-1", ProcessingDelay: time.Hour}, gen, nil, discardLogger())
	t.Cleanup(flow.Close)

	_, err := flow.Submit(context.Background(), scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	_, err = flow.Verify(context.Background(), "123456")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = flow.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransferFlow_ClosedSignal(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	select {
	case <-flow.Closed():
		t.Fatal("new flow reports closed")
	default:
	}

	flow.Close()
	flow.Close()

	select {
	case <-flow.Closed():
	default:
		t.Fatal("closed flow did not signal")
	}
}

func TestTransferFlow_SnapshotVersionIncreases(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()

	first := flow.Snapshot()
	submitted, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
	require.NoError(t, err)
	verified, err := flow.Verify(ctx, "123456")
	require.NoError(t, err)
	completed := waitCompleted(t, flow)

	assert.Less(t, first.Version, submitted.Version)
	assert.Less(t, submitted.Version, verified.Version)
	assert.Less(t, verified.Version, completed.Version)
}

func TestTransferFlow_StaleSnapshotIsNotPublished(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	var got []domain.FlowState
	subs := []func(domain.FlowSnapshot){func(s domain.FlowSnapshot) { got = append(got, s.State) }}

	flow.publish(subs, domain.FlowSnapshot{State: domain.FlowStateCompleted, Version: 4})
	flow.publish(subs, domain.FlowSnapshot{State: domain.FlowStateVerifying, Version: 3})

	assert.Equal(t, []domain.FlowState{domain.FlowStateCompleted}, got)
}

func TestTransferFlow_ZeroDelaySubscriberEndsCompleted(t *testing.T) {
	for i := 0; i < 200; i++ {
		gen := &sequenceGenerator{codes: []string{"123456"}}
		flow := NewTransferFlow(FlowConfig{UserID: "user-1"}, gen, nil, discardLogger())
		ctx := context.Background()

		var mu sync.Mutex
		var last domain.FlowState
		flow.Subscribe(func(s domain.FlowSnapshot) {
			mu.Lock()
			defer mu.Unlock()
			last = s.State
		})

		_, err := flow.Submit(ctx, scenarioForm("1234567890", "50"))
		require.NoError(t, err)
		_, err = flow.Verify(ctx, "123456")
		require.NoError(t, err)
		waitCompleted(t, flow)

		mu.Lock()
		assert.Equal(t, domain.FlowStateCompleted, last)
		mu.Unlock()
		flow.Close()
	}
}
