package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

const (
	eventBuffer       = 16
	keepAliveInterval = 25 * time.Second
)

// handleTransferEvents streams flow snapshots as server-sent events. The current
// snapshot is sent first, then one event per state change. The stream ends when
// the flow is closed (sign-out, idle sweep, shutdown) so the client reconnects
// to the user's next flow.
func (h *Handler) handleTransferEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	flow := h.flows.Flow(user.ID)
	events := make(chan domain.FlowSnapshot, eventBuffer)
	unsubscribe := flow.Subscribe(func(snap domain.FlowSnapshot) {
		select {
		case events <- snap:
		default:
			h.logger.Warn("dropping flow snapshot for slow event stream", "user_id", user.ID, "state", snap.State)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSnapshotEvent(w, flow.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-flow.Closed():
			return
		case snap := <-events:
			if err := writeSnapshotEvent(w, snap); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSnapshotEvent(w http.ResponseWriter, snap domain.FlowSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	return err
}
