package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlowState is the state tag of a transfer confirmation flow.
type FlowState string

const (
	FlowStateEditing             FlowState = "editing"
	FlowStatePendingVerification FlowState = "pending_verification"
	FlowStateVerifying           FlowState = "verifying"
	FlowStateCompleted           FlowState = "completed"
)

// TransferStatusCompleted is the status label shown on the completion screen.
const TransferStatusCompleted = "Completed"

// TransferSummary describes a transfer as shown to the user.
type TransferSummary struct {
	Amount           decimal.Decimal `json:"amount"`
	AmountDisplay    string          `json:"amountDisplay"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	Status           string          `json:"status,omitempty"`
}

// NewTransferSummary builds the summary for req. status may be empty.
func NewTransferSummary(req TransferRequest, status string) *TransferSummary {
	return &TransferSummary{
		Amount:           req.Amount,
		AmountDisplay:    FormatUSD(req.Amount),
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		Status:           status,
	}
}

// FlowSnapshot is the read-only view of a flow handed to the presentation layer.
// It never carries the challenge code.
type FlowSnapshot struct {
	FlowID       uuid.UUID        `json:"flowId"`
	State        FlowState        `json:"state"`
	FieldErrors  FieldErrors      `json:"fieldErrors"`
	HasChallenge bool             `json:"hasChallenge"`
	Pending      *TransferSummary `json:"pending,omitempty"`
	Completion   *TransferSummary `json:"completion,omitempty"`
	Version      uint64           `json:"version"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}
