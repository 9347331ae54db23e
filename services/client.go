package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one subscribed websocket connection.
type Client struct {
	playerID string
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
	log      *zap.SugaredLogger

	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// trySend queues msg for the write pump. Returns false when the client
// is already closed or its buffer is full; the mutex orders trySend
// against Close so a broadcast can never hit a closed channel.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// readPump consumes client messages. The only inbound message is a
// heartbeat, which refreshes presence; everything else is ignored but
// still drained to keep the connection alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debugw("client disconnected", "player", c.playerID)
			} else {
				c.log.Warnw("client read error", "player", c.playerID, "error", err)
			}
			return
		}

		var data map[string]any
		if err := json.Unmarshal(message, &data); err != nil {
			c.log.Warnw("invalid client message", "player", c.playerID, "error", err)
			continue
		}
		switch data["action"] {
		case "heartbeat":
			if err := c.hub.svc.Heartbeat(context.Background(), c.playerID); err != nil {
				c.log.Warnw("heartbeat failed", "player", c.playerID, "error", err)
			}
		default:
			c.log.Debugw("unknown client action", "player", c.playerID, "action", data["action"])
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.log.Warnw("client write error", "player", c.playerID, "error", err)
			return
		}
	}
}
