package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"minicms/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub fans out live comment events to readers of the same article.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

type Client struct {
	hub       *Hub
	id        string
	socket    *websocket.Conn
	send      chan []byte
	articleID uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("Client registered: %s for article %d - Total clients: %d", client.id, client.articleID, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeLocked(client)
				log.Printf("Client unregistered: %s for article %d - Total clients: %d", client.id, client.articleID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// removeLocked drops a client. The caller holds h.mutex for writing.
func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// BroadcastToArticle sends a message to every client watching articleID and
// returns how many received it.
func (h *Hub) BroadcastToArticle(articleID uint, messageType string, payload interface{}) int {
	data, err := json.Marshal(Message{
		Type:    messageType,
		Payload: payload,
	})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return 0
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	delivered := 0
	for client := range h.clients {
		if client.articleID != articleID {
			continue
		}
		select {
		case client.send <- data:
			delivered++
		default:
			log.Printf("Client %s send buffer full, closing connection", client.id)
			h.removeLocked(client)
		}
	}
	return delivered
}

func (h *Hub) BroadcastComment(comment models.Comment) int {
	return h.BroadcastToArticle(comment.ArticleID, "comment_added", comment)
}

// ClientCount returns the number of clients watching articleID.
func (h *Hub) ClientCount(articleID uint) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for client := range h.clients {
		if client.articleID == articleID {
			count++
		}
	}
	return count
}

func (h *Hub) RegisterClient(conn *websocket.Conn, articleID uint) *Client {
	client := &Client{
		hub:       h,
		id:        uuid.NewString(),
		socket:    conn,
		send:      make(chan []byte, 256),
		articleID: articleID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	c.socket.SetReadLimit(4096)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
		c.hub.mutex.RLock()
		defer c.hub.mutex.RUnlock()
		if _, ok := c.hub.clients[c]; !ok {
			return
		}
		select {
		case c.send <- data:
		default:
		}

	default:
		log.Printf("Unknown message type: %s from client %s on article %d", msg.Type, c.id, c.articleID)
	}
}
