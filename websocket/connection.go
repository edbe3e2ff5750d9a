// Package websocket provides the live admin feed: payment-status changes
// made through this portal are pushed to every connected admin dashboard.
// file: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hackathon-portal/logger"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single admin feed subscriber.
type Connection struct {
	conn WSConn
	send chan []byte
}

// registry of active connections
var (
	connectionsMu sync.Mutex
	connections   = make(map[*Connection]bool)
)

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Upgrader upgrades HTTP requests to WebSocket connections. Origin is not
// checked here; the admin session guard already ran before the upgrade.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeAdminFeed upgrades the request to a WebSocket connection and
// starts the read and write pumps.
func ServeAdminFeed(w http.ResponseWriter, r *http.Request) {
	logger.Info.Printf("[ServeAdminFeed] upgrading to WS: remoteAddr=%v", r.RemoteAddr)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeAdminFeed] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		conn: wsConn,
		send: make(chan []byte, 64),
	}

	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

func registerConnection(c *Connection) {
	connectionsMu.Lock()
	connections[c] = true
	count := len(connections)
	connectionsMu.Unlock()
	logger.Info.Printf("[registerConnection] admin feed connections: %d", count)
}

func unregisterConnection(c *Connection) {
	connectionsMu.Lock()
	if _, ok := connections[c]; ok {
		delete(connections, c)
		close(c.send)
	}
	count := len(connections)
	connectionsMu.Unlock()
	logger.Info.Printf("[unregisterConnection] admin feed connections: %d", count)
}

// ConnectionCount returns the number of connected admin feeds.
func ConnectionCount() int {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	return len(connections)
}

// readPump drains inbound frames. The feed is one-way; clients send
// nothing we act on, but the pump keeps pong handling alive and detects
// closed connections.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug.Printf("[readPump] read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
	}
}

// writePump pushes queued messages to the client and pings on an interval.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn.Printf("[writePump] write error to %v: %v", c.conn.RemoteAddr(), err)
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
