package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the tone of a user-facing message.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient message for one user.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    string           `json:"userId"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewNotification stamps a new notification for userID.
func NewNotification(userID string, kind NotificationKind, message string) Notification {
	return Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
