// Package ws fans realtime order events out to connected participants over
// WebSocket. The hub implements the notifier port: publication is
// fire-and-forget, so a dead connection or slow client never affects the
// command that produced the event.
package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeTimeout = 5 * time.Second

// envelope is the wire format of one event frame.
type envelope struct {
	Event   string         `json:"event"`
	OrderID string         `json:"orderId"`
	Body    map[string]any `json:"body,omitempty"`
}

// client wraps one connection with a write lock; gorilla connections do not
// allow concurrent writers.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *client) close() {
	_ = c.conn.Close()
}

// Hub tracks live connections per actor and delivers events to them.
type Hub struct {
	token    string
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewHub creates a hub. Connections authenticate with the shared token; an
// actor may hold several connections at once (for example phone and web).
func NewHub(token string, logger *slog.Logger) *Hub {
	return &Hub{
		token:  token,
		logger: logger.With("component", "ws-hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]map[*client]struct{}),
	}
}

// Handle upgrades the request and registers the connection under the actor's
// identity. Credentials travel as query parameters because browsers cannot
// set headers on WebSocket dials. A bad credential still gets an upgrade so
// the client receives a close frame explaining the rejection.
func (h *Hub) Handle(c echo.Context) error {
	actorID := c.QueryParam("actor_id")
	token := c.QueryParam("token")

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	if token != h.token {
		h.reject(conn, "invalid token")
		return nil
	}
	if _, err = kernel.UUIDFromString(actorID); err != nil {
		h.reject(conn, "invalid actor id")
		return nil
	}

	cl := &client{conn: conn}
	h.register(actorID, cl)
	h.logger.Info("participant connected", "actor_id", actorID)

	go h.readLoop(actorID, cl)
	return nil
}

// Publish delivers the notification to every live connection of every
// recipient. Sends run in their own goroutines; failures drop the connection
// and are logged, never returned.
func (h *Hub) Publish(n ports.Notification) {
	frame := envelope{
		Event:   n.Event,
		OrderID: n.OrderID.String(),
		Body:    n.Body,
	}

	for _, recipient := range n.Recipients {
		for _, cl := range h.connectionsOf(recipient.String()) {
			go func(actorID string, cl *client) {
				if err := cl.send(frame); err != nil {
					h.logger.Warn("delivery failed, dropping connection",
						"actor_id", actorID, "event", frame.Event, "error", err)
					h.unregister(actorID, cl)
					cl.close()
				}
			}(recipient.String(), cl)
		}
	}
}

// ConnectedActors returns how many actors currently hold at least one live
// connection.
func (h *Hub) ConnectedActors() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readLoop drains inbound frames to process control messages and detect
// disconnects. Clients do not speak to the engine over this channel.
func (h *Hub) readLoop(actorID string, cl *client) {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.unregister(actorID, cl)
			cl.close()
			h.logger.Info("participant disconnected", "actor_id", actorID)
			return
		}
	}
}

func (h *Hub) reject(conn *websocket.Conn, reason string) {
	deadline := time.Now().Add(writeTimeout)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
	_ = conn.Close()
}

func (h *Hub) register(actorID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[actorID] == nil {
		h.clients[actorID] = make(map[*client]struct{})
	}
	h.clients[actorID][cl] = struct{}{}
}

func (h *Hub) unregister(actorID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[actorID]
	delete(set, cl)
	if len(set) == 0 {
		delete(h.clients, actorID)
	}
}

func (h *Hub) connectionsOf(actorID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.clients[actorID]
	if len(set) == 0 {
		return nil
	}

	conns := make([]*client, 0, len(set))
	for cl := range set {
		conns = append(conns, cl)
	}
	return conns
}
