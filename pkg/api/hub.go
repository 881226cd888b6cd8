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

package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/nmapping/pkg/logger"
)

const (
	MessageTypeDashboardUpdate = "dashboard_update"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 8
)

// Message represents a message sent over the WebSocket.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans dashboard updates out to connected WebSocket clients. Slow clients whose send
// buffer is full are disconnected rather than blocking a broadcast.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*hubClient]struct{}
	upgrader websocket.Upgrader
	logger   logger.Logger
}

type hubClient struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

// NewHub creates a hub. checkOrigin decides which browser origins may connect.
func NewHub(checkOrigin func(r *http.Request) bool, log logger.Logger) *Hub {
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

// Serve upgrades the request and registers the connection. initial, when non-nil, is the
// first message the client receives.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial *Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &hubClient{conn: conn, send: make(chan []byte, sendBuffer)}

	if initial != nil {
		payload, err := json.Marshal(initial)
		if err == nil {
			c.send <- payload
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Info().
		Str("remote_addr", r.RemoteAddr).
		Int("clients", h.ClientCount()).
		Msg("WebSocket connection established")

	go h.writePump(c)
	go h.readPump(c)

	return nil
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(msg *Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to encode WebSocket message")
		return
	}

	var slow []*hubClient

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn().Str("remote_addr", c.conn.RemoteAddr().String()).Msg("Dropping slow WebSocket client")
		h.remove(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*hubClient, 0, len(h.clients))

	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *hubClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (h *Hub) writePump(c *hubClient) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug().Err(err).Msg("WebSocket write failed")
				h.remove(c)

				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(c *hubClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("WebSocket closed unexpectedly")
			}

			return
		}
	}
}
