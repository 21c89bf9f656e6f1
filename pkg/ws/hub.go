package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"midorisky/pkg/zlog"

	"github.com/gorilla/websocket"
)

// ErrConnectionGone is returned by Post when the connection id no longer
// maps to a live socket. Callers use it to prune stale registry rows
// without treating the push as a hard failure.
var ErrConnectionGone = errors.New("ws: connection gone")

// Hub tracks live sockets by connection id. Identity is not the hub's
// concern; the connection registry owns the connection-to-username mapping.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil || c.connID == "" {
		return
	}
	h.mu.Lock()
	old := h.clients[c.connID]
	h.clients[c.connID] = c
	h.mu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
}

func (h *Hub) Unregister(connID string) {
	if connID == "" {
		return
	}
	h.mu.Lock()
	c := h.clients[connID]
	delete(h.clients, connID)
	h.mu.Unlock()
	if c != nil {
		c.Close()
	}
}

// Post delivers a payload to a single connection. A missing connection, a
// closed client or a saturated send buffer counts as gone; the hub drops its
// own entry and the caller decides registry policy.
func (h *Hub) Post(connID string, payload []byte) error {
	if connID == "" || len(payload) == 0 {
		return ErrConnectionGone
	}

	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c == nil {
		return ErrConnectionGone
	}

	select {
	case <-c.done:
		// The socket died but the entry is still mapped.
		h.Unregister(connID)
		return ErrConnectionGone
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrConnectionGone
	default:
		h.Unregister(connID)
		return ErrConnectionGone
	}
}

func (h *Hub) PostJSON(connID string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.Post(connID, b)
}

const writeWait = 10 * time.Second

// pingPeriod must stay under the reader's 60s pong deadline.
var pingPeriod = 54 * time.Second

type Client struct {
	connID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

func NewClient(connID string, conn *websocket.Conn) *Client {
	return &Client{
		connID: connID,
		conn:   conn,
		send:   make(chan []byte, 64),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.connID
}

// Close signals the write pump via done rather than closing send, so a Post
// racing with Close can never send on a closed channel.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Error(err.Error())
				return
			}
		case <-ticker.C:
			// Idle clients only answer pings; without these the reader's
			// deadline would drop every quiet connection.
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
