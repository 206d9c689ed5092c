/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	MessageTypeLinkState      = "link_state"
	MessageTypeInterfaceState = "interface_state"
	MessageTypePing           = "ping"

	clientSendBuffer = 16
	writeWait        = 10 * time.Second
	pingInterval     = 30 * time.Second
	readWait         = 2 * pingInterval
)

// StreamMessage is one frame sent to websocket clients.
type StreamMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan StreamMessage
	once sync.Once
}

func (c *hubClient) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub broadcasts events to every connected websocket client. Clients that
// fall behind by more than their send buffer are disconnected.
type Hub struct {
	mu       sync.Mutex
	clients  map[*hubClient]struct{}
	closed   bool
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHub returns an empty hub. checkOrigin may be nil to accept any origin.
func NewHub(log logger.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Hub{
		clients: make(map[*hubClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: log,
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	client := &hubClient{conn: conn, send: make(chan StreamMessage, clientSendBuffer)}

	if !h.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ErrHubClosed.Error()), time.Now().Add(writeWait))
		_ = conn.Close()

		return
	}

	h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("Event stream client connected")

	go h.readLoop(client)

	h.writeLoop(client)

	h.unregister(client)
	_ = conn.Close()

	h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("Event stream client disconnected")
}

func (h *Hub) register(c *hubClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[c] = struct{}{}

	return true
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
}

// readLoop discards client frames and unregisters the client on error.
func (h *Hub) readLoop(c *hubClient) {
	defer h.unregister(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("Event stream client read error")
			}

			return
		}
	}
}

func (h *Hub) writeLoop(c *hubClient) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) Notify(_ context.Context, event models.ChangeEvent) error {
	return h.Broadcast(StreamMessage{Type: MessageTypeLinkState, Data: event, Timestamp: event.Timestamp})
}

func (h *Hub) NotifyInterface(_ context.Context, event models.InterfaceChangeEvent) error {
	return h.Broadcast(StreamMessage{Type: MessageTypeInterfaceState, Data: event, Timestamp: event.Timestamp})
}

// Broadcast queues msg for every client without blocking.
func (h *Hub) Broadcast(msg StreamMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().
				Str("remote_addr", c.conn.RemoteAddr().String()).
				Msg("Dropping slow event stream client")

			delete(h.clients, c)
			c.close()
		}
	}

	return nil
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
