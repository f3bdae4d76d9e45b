package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/danmuck/wsjtxmon/internal/observability"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	clientQueue  = 64
	writeTimeout = 5 * time.Second
)

var ErrHubFull = errors.New("admin: websocket client limit reached")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Hub fans feed events out to websocket clients. Slow clients drop
// events rather than block the receive loop.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*wsClient
	maxClients int
	logger     zerolog.Logger
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(maxClients int, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*wsClient),
		maxClients: maxClients,
		logger:     logger,
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues v as JSON for every client.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Err(err).Msg("ws_marshal_failed")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn().Str("client", c.id).Msg("ws_client_slow_drop")
		}
	}
}

// ServeWS upgrades the request and serves the client until it leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws_upgrade_failed")
		return
	}
	c := &wsClient{id: "ws-" + uuid.NewString(), conn: conn, send: make(chan []byte, clientQueue)}
	if err := h.add(c); err != nil {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("ws_client_rejected")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeTimeout))
		_ = conn.Close()
		return
	}
	h.logger.Info().Str("client", c.id).Str("remote_addr", r.RemoteAddr).Msg("ws_client_connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) add(c *wsClient) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && len(h.clients) >= h.maxClients {
		return ErrHubFull
	}
	h.clients[c.id] = c
	observability.SetWSClients(len(h.clients))
	return nil
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	observability.SetWSClients(n)
}

// readLoop discards client input and returns once the connection drops.
func (h *Hub) readLoop(c *wsClient) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
		h.logger.Info().Str("client", c.id).Msg("ws_client_disconnected")
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Str("client", c.id).Msg("ws_client_error")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *wsClient) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		_ = c.conn.Close()
	}
}
