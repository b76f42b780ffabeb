/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time push channel to the browser client.

    It maintains a registry of all active clients (open tabs) and manages
    the broadcast channel. After every applied action the server pushes the
    fresh state snapshot here, and the Hub ensures it is written to the
    sockets of every connected tab.

    Architecture:
    - Hub: The singleton manager.
    - Client: Represents one browser connection, tagged with a uuid.
    - ServeWs: The HTTP handler that upgrades a GET request to a WebSocket.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message defines the standard JSON envelope for all real-time traffic.
type Message struct {
	Type    string      `json:"type"`    // Event type (e.g. "state_update", "production_pulse")
	Payload interface{} `json:"payload"` // The actual data
	Sender  string      `json:"sender"`  // Origin id ("system" or a client uuid)
}

// Client represents a single connected tab.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub. Call Run in a goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Broadcast marshals an envelope and queues it for every connected client.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	raw, err := json.Marshal(Message{Type: msgType, Payload: payload, Sender: "system"})
	if err != nil {
		log.Printf("WS: marshal %s failed: %v", msgType, err)
		return
	}
	h.broadcast <- raw
}

// Run is the Hub's event loop. It blocks, so run it as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("WS: client %s connected", client.id)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Full send buffer: assume the tab hung or closed.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// upgrader allows any origin; the game is served cross-domain in development.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a persistent WebSocket connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	// One goroutine per direction so a slow tab can't block the server.
	go client.writePump()
	go client.readPump()
}

// readPump drains the connection. Inbound traffic is ignored (actions come
// in over the REST API), but the read loop is what notices a disconnect.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
