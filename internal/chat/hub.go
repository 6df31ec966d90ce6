package chat

import (
	"encoding/json"
	"sync"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Event is the frame exchanged over the websocket.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	EventMessage = "message"
	EventError   = "error"
)

// Hub tracks connected clients per user id and fans messages out to
// conversation participants. A user may be connected from several devices
// at once.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]bool),
		log:     log,
	}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
	h.log.Debug("chat client connected", zap.Uint("user_id", userID))
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	h.log.Debug("chat client disconnected", zap.Uint("user_id", userID))
}

// Deliver pushes a stored message to every connection of the given users.
// Offline users are skipped; they see the message on their next fetch.
func (h *Hub) Deliver(message *models.MessageView, userIDs ...uint) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal chat message", zap.Error(err))
		return
	}
	frame := Event{Type: EventMessage, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range userIDs {
		for conn := range h.clients[userID] {
			if err := conn.WriteJSON(frame); err != nil {
				h.log.Warn("chat delivery failed",
					zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}
}

// Online reports whether the user has at least one open connection.
func (h *Hub) Online(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
