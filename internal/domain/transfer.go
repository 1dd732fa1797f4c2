/**
 * @description
 * Domain models and validation rules for the transfer form. A TransferForm is the raw
 * input as typed by the user; Validate turns it into a TransferRequest only when every
 * field passes at the same time.
 *
 * @notes
 * - Amounts use shopspring/decimal so "0.01" and "10000.00" compare exactly.
 * - Account number digit normalization happens in the caller (see NormalizeAccountNumber).
 */

package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinAccountNumberLength = 10
	MaxAccountNumberLength = 20
	MinRecipientNameLength = 2
	MaxRecipientNameLength = 100
	MaxDescriptionLength   = 200
)

// Form field names, in the order errors are reported.
const (
	FieldRecipientAccount = "recipientAccount"
	FieldRecipientName    = "recipientName"
	FieldAmount           = "amount"
	FieldDescription      = "description"
)

var (
	MinTransferAmount = decimal.RequireFromString("0.01")
	MaxTransferAmount = decimal.NewFromInt(10000)
)

// TransferForm is the DTO for the transfer form as submitted by the client.
// Amount is kept as the raw text the user typed.
type TransferForm struct {
	RecipientAccount string `json:"recipientAccount"`
	RecipientName    string `json:"recipientName"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
}

// TransferRequest is a transfer form that passed validation.
type TransferRequest struct {
	RecipientAccount string          `json:"recipientAccount"`
	RecipientName    string          `json:"recipientName"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
}

// Validate checks every field of the form. On failure the returned error is a
// FieldErrors value with at most one message per field.
func (f TransferForm) Validate() (TransferRequest, error) {
	var errs FieldErrors

	accountLen := utf8.RuneCountInString(f.RecipientAccount)
	switch {
	case accountLen < MinAccountNumberLength:
		errs.Add(FieldRecipientAccount, "Account number must be at least 10 digits")
	case accountLen > MaxAccountNumberLength:
		errs.Add(FieldRecipientAccount, "String must contain at most 20 character(s)")
	}

	nameLen := utf8.RuneCountInString(f.RecipientName)
	switch {
	case nameLen < MinRecipientNameLength:
		errs.Add(FieldRecipientName, "Recipient name is required")
	case nameLen > MaxRecipientNameLength:
		errs.Add(FieldRecipientName, "String must contain at most 100 character(s)")
	}

	amount := ParseAmount(f.Amount)
	switch {
	case amount.LessThan(MinTransferAmount):
		errs.Add(FieldAmount, "Amount must be greater than 0")
	case amount.GreaterThan(MaxTransferAmount):
		errs.Add(FieldAmount, "Maximum transfer amount is $10,000")
	}

	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		errs.Add(FieldDescription, "String must contain at most 200 character(s)")
	}

	if len(errs) > 0 {
		return TransferRequest{}, errs
	}

	return TransferRequest{
		RecipientAccount: f.RecipientAccount,
		RecipientName:    f.RecipientName,
		Amount:           amount.Round(2),
		Description:      f.Description,
	}, nil
}

// ParseAmount parses user-typed amount text. Anything that does not parse is zero.
// The whole text must be a number: a numeric prefix such as "12abc" is not
// salvaged, so it fails validation as zero.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// NormalizeAccountNumber strips every non-digit character, the same way the
// account number input does while the user types.
func NormalizeAccountNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
