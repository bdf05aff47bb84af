package ws

import (
	"encoding/json"
	"sync"

	"warehouse-backend/internal/events"
	"warehouse-backend/internal/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Hub tracks connected websocket clients and pushes inventory update
// events to them. Delivery is best-effort: a client that fails a write is
// dropped, and failures never propagate to the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// Attach subscribes the hub to the event bus.
func (h *Hub) Attach(bus *events.Bus) {
	bus.Subscribe(func(ev events.InventoryUpdate) {
		h.Broadcast("inventory:update", ev)
	})
}

// UpgradeMiddleware rejects plain HTTP requests on the websocket route.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler upgrades the connection and parks it in the hub until the client
// disconnects.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.register(conn)
		defer h.unregister(conn)

		// Drain client frames; the channel is push-only.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	logger.Sugar().Infow("websocket client connected", "clients", len(h.clients))
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Broadcast sends {"event": ..., "data": ...} to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(fiber.Map{
		"event": event,
		"data":  data,
	})
	if err != nil {
		logger.Sugar().Warnw("broadcast marshal failed", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
