package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
// Targeted broadcasts arrive on service goroutines while Run mutates the
// client set on its own, so the maps are guarded by a mutex.
type Hub struct {
	mu sync.Mutex

	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of user IDs to the set of clients subscribed to that account's
	// activity (a donor may have several tabs open).
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			if client.UserID != "" {
				h.addSubscription(client, client.UserID)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("total_clients", total).Msg("Client connected")
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.removeSubscription(client)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("total_clients", total).Msg("Client disconnected")
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.TrySend(message) {
					client.closeSend()
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a user's
// activity. Safe to call from any goroutine; clients that cannot keep up
// are evicted.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.subscriptions[userID] {
		if !client.TrySend(message) {
			client.closeSend()
			delete(h.clients, client)
			delete(h.subscriptions[userID], client)
		}
	}
	if len(h.subscriptions[userID]) == 0 {
		delete(h.subscriptions, userID)
	}
}

// addSubscription requires h.mu to be held.
func (h *Hub) addSubscription(client *Client, userID string) {
	if h.subscriptions[userID] == nil {
		h.subscriptions[userID] = make(map[*Client]bool)
	}
	h.subscriptions[userID][client] = true
}

// removeSubscription requires h.mu to be held.
func (h *Hub) removeSubscription(client *Client) {
	for userID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, userID)
			}
		}
	}
}
