// Package ws pushes toast-style notification events to connected
// clients over WebSocket.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pawlingo/pawlingo-server/internal/logger"
	"github.com/pawlingo/pawlingo-server/internal/notify"
)

var log = logger.New("ws")

// Event is a notification pushed to clients
type Event struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Severity    notify.Severity `json:"severity"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Client represents one connected socket
type Client struct {
	ID     uuid.UUID
	Socket *websocket.Conn
	Send   chan []byte
}

// Hub maintains the set of connected clients and fans notification
// events out to all of them. Implements notify.Notifier.
type Hub struct {
	clients    map[uuid.UUID]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.Mutex
}

// NewHub creates a notification hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID] = client
			log.Info("Client connected: %s", client.ID)
			h.mutex.Unlock()
		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
				log.Info("Client disconnected: %s", client.ID)
			}
			h.mutex.Unlock()
		case message := <-h.broadcast:
			h.mutex.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, id)
					log.Warn("Dropped slow client %s", id)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Notify encodes the notification as an event and broadcasts it.
// Fire-and-forget: delivery to any particular client is best effort.
func (h *Hub) Notify(title, description string, severity notify.Severity) {
	event := Event{
		Type:        "notification",
		Title:       title,
		Description: description,
		Severity:    severity,
		Timestamp:   time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to marshal notification event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("Notification event dropped, hub backlog full")
	}
}

// HandleWebSocket upgrades an authenticated request to a notification socket
func (h *Hub) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user identification"})
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		ID:     userUUID,
		Socket: conn,
		Send:   make(chan []byte, 256),
	}

	h.register <- client

	go client.readPump(h)
	go client.writePump()
}

// readPump drains the connection so close frames and pongs are
// processed; clients do not send meaningful payloads.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(4 * 1024)
	c.Socket.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading from client %s: %v", c.ID, err)
			}
			break
		}
	}
}

// writePump pumps events from the hub to the socket
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
