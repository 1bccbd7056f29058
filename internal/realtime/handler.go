package realtime

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler serves the live booking feed over WebSocket.
type Handler struct {
	hub    *Hub
	logger *logging.Logger
}

// NewHandler creates a realtime handler.
func NewHandler(hub *Hub, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{hub: hub, logger: logger}
}

// HandleWebSocket upgrades GET /ws/bookings and streams change events as
// JSON frames. Authenticated connections receive only their own bookings;
// anonymous ones receive guest bookings only.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	defer conn.Close()

	var userID *uuid.UUID
	if id, ok := auth.UserIDFromContext(r.Context()); ok {
		userID = &id
	}

	events, cancel := h.hub.Subscribe(userID)
	defer cancel()

	// The read side only tracks disconnects; clients send nothing we act on.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := websocket.JSON.Send(conn, event); err != nil {
				h.logger.Warn("booking feed send failed", "error", err)
				return
			}
		}
	}
}
