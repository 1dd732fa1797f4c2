package notify

import (
	"context"
	"sync"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// DefaultInboxSize is the number of undrained notifications kept per user.
const DefaultInboxSize = 50

// Inbox keeps recent notifications per user until the client drains them.
// When full, the oldest message is dropped.
type Inbox struct {
	mu    sync.Mutex
	size  int
	boxes map[string][]domain.Notification
}

// NewInbox creates an inbox holding up to size messages per user.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{size: size, boxes: make(map[string][]domain.Notification)}
}

// Deliver appends n to its user's inbox.
func (i *Inbox) Deliver(_ context.Context, n domain.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	box := append(i.boxes[n.UserID], n)
	if len(box) > i.size {
		box = box[len(box)-i.size:]
	}
	i.boxes[n.UserID] = box
	return nil
}

// Drain returns and clears userID's notifications, oldest first.
func (i *Inbox) Drain(userID string) []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	box := i.boxes[userID]
	delete(i.boxes, userID)
	if box == nil {
		return []domain.Notification{}
	}
	return box
}
