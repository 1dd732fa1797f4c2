package domain

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// OTPLength is the number of digits in a verification code.
const OTPLength = 6

// VerificationChallenge binds a one-time code to the transfer request it confirms.
// It has no expiry and no attempt counter.
type VerificationChallenge struct {
	ID       uuid.UUID
	Code     string
	IssuedAt time.Time
	Request  TransferRequest

	consumed bool
}

// NewVerificationChallenge creates an unconsumed challenge for req.
func NewVerificationChallenge(code string, req TransferRequest, issuedAt time.Time) *VerificationChallenge {
	return &VerificationChallenge{
		ID:       uuid.New(),
		Code:     code,
		IssuedAt: issuedAt,
		Request:  req,
	}
}

// Consume reports whether code matches. A matching code marks the challenge as
// used, after which every further attempt fails.
func (c *VerificationChallenge) Consume(code string) bool {
	if c == nil || c.consumed {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
		return false
	}
	c.consumed = true
	return true
}

// Consumed reports whether the challenge has already been used.
func (c *VerificationChallenge) Consumed() bool {
	return c != nil && c.consumed
}

// IsWellFormedCode reports whether code is exactly six ASCII digits.
func IsWellFormedCode(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
