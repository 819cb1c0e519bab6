package websocket

import (
	"encoding/json"
	"sync"

	"kanzlei-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans out agent progress and notifications to the connected clients
// of each user. A user can be connected from several devices at once.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]bool
	log     logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserId] == nil {
		h.clients[c.UserId] = make(map[*Client]bool)
	}
	h.clients[c.UserId][c] = true
	h.log.Debug("websocket", "client connected", map[string]interface{}{
		"user_id": c.UserId.String(),
	})
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.UserId]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.clients, c.UserId)
		}
	}
}

// Push delivers a payload to every connection of the user. Slow clients
// are dropped rather than allowed to block the agent run.
func (h *Hub) Push(userId uuid.UUID, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("websocket", "failed to marshal push payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[userId]))
	for c := range h.clients[userId] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- data:
		default:
			h.log.Warn("websocket", "client send buffer full, dropping connection", map[string]interface{}{
				"user_id": userId.String(),
			})
			h.Unregister(c)
		}
	}
}

// Connected reports how many connections a user currently holds.
func (h *Hub) Connected(userId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userId])
}
