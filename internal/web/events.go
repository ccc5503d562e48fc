package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"mahjong-seisan/internal/session"
)

const writeWait = 10 * time.Second

// SubscribeToEvents streams the caller's session changes over a websocket,
// starting with a snapshot of the current state
func (h *Handler) SubscribeToEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := session.FromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	events, cancel := h.sessions.Subscribe(s.ID)
	defer cancel()

	// Reads only detect the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snapshot := session.Event{
		Type:      session.EventTypeSnapshot,
		SessionID: s.ID,
		Timestamp: time.Now(),
		Session:   s,
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
