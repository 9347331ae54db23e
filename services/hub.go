package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dmarins/bingo-live/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes the round document and each subscriber's own card set over
// websocket whenever a mutation commits. Subscribers must tolerate the
// round being absent: a "round_missing" message tells them to fall back.
type Hub struct {
	svc *RoundService
	log *zap.SugaredLogger

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(svc *RoundService, log *zap.SugaredLogger) *Hub {
	h := &Hub{
		svc:     svc,
		log:     log,
		clients: make(map[string]*Client),
	}
	svc.OnChange(h.Broadcast)
	return h
}

// HandleWebSocket upgrades the connection and subscribes the player.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	playerID := c.Query("player")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing player query param"})
		return
	}
	if _, err := h.svc.GetUser(c.Request.Context(), playerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not registered"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "player", playerID, "error", err)
		return
	}

	client := &Client{
		playerID: playerID,
		conn:     conn,
		hub:      h,
		send:     make(chan []byte, 32),
		log:      h.log,
	}
	h.addClient(client)
}

func (h *Hub) addClient(c *Client) {
	if old := h.register(c); old != nil {
		old.Close()
	}

	go c.writePump()
	go c.readPump()

	h.log.Infow("subscriber joined", "player", c.playerID, "total", h.clientCount())
	h.sendSnapshot(c)
}

// register installs c as the player's subscription and returns the
// connection it replaced, if any.
func (h *Hub) register(c *Client) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.clients[c.playerID]
	h.clients[c.playerID] = c
	return old
}

// removeClient drops c's registration. The entry is only removed when it
// still points at c: a replaced connection unwinding its read pump must
// not tear down the reconnected one that took its slot.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.playerID]; ok && current == c {
		delete(h.clients, c.playerID)
	}
	h.mu.Unlock()
	c.Close()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes fresh state to every subscriber.
func (h *Hub) Broadcast() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.sendSnapshot(c)
	}
}

func (h *Hub) sendSnapshot(c *Client) {
	ctx := context.Background()
	round, err := h.svc.GetRound(ctx)
	if err != nil {
		h.push(c, map[string]any{"type": "round_missing"})
		return
	}
	cards, err := h.svc.GetCardSet(ctx, c.playerID)
	if err != nil {
		h.log.Warnw("card set fetch failed", "player", c.playerID, "error", err)
		cards = nil
	}
	if cards == nil {
		cards = []models.BingoCard{}
	}
	h.push(c, map[string]any{
		"type":  "state",
		"round": round,
		"cards": cards,
	})
}

func (h *Hub) push(c *Client, payload map[string]any) {
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if !c.trySend(b) {
		h.log.Debugw("dropping message to closed or slow subscriber", "player", c.playerID)
	}
}
