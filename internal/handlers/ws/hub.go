package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata
type ClientConnection struct {
	Conn       *websocket.Conn
	Identity   string
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}
}

// Hub manages active connections and their per-group channel subscriptions.
// A subscription is the live end of the channel's message query: every append
// to a subscribed group is pushed to the connection without polling.
type Hub struct {
	clients    map[string]*ClientConnection
	subs       map[uint]map[string]struct{} // group id -> subscribed identities
	clientSubs map[string]map[uint]struct{} // identity -> subscribed group ids
	mux        sync.RWMutex

	pingInterval time.Duration
	pongTimeout  time.Duration
}

func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[string]*ClientConnection),
		subs:         make(map[uint]map[string]struct{}),
		clientSubs:   make(map[string]map[uint]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(identity string, conn *websocket.Conn) {
	clientConn := &ClientConnection{
		Conn:       conn,
		Identity:   identity,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(h.pingInterval),
		CloseChan:  make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.mux.Lock()
		if client, exists := h.clients[identity]; exists {
			client.LastPong = time.Now()
		}
		h.mux.Unlock()
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.mux.Lock()
	h.clients[identity] = clientConn
	count := len(h.clients)
	h.mux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("Identity %s connected to hub (total: %d)", identity, count)
}

// Unregister removes a client connection and disposes every subscription it
// holds, so a torn-down viewer cannot leak live queries.
func (h *Hub) Unregister(identity string) {
	h.mux.Lock()
	if client, exists := h.clients[identity]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, identity)
	for groupID := range h.clientSubs[identity] {
		delete(h.subs[groupID], identity)
		if len(h.subs[groupID]) == 0 {
			delete(h.subs, groupID)
		}
	}
	delete(h.clientSubs, identity)
	count := len(h.clients)
	h.mux.Unlock()
	log.Printf("Identity %s disconnected from hub (total: %d)", identity, count)
}

// Subscribe attaches the identity's connection to a group's channel. The
// caller is responsible for the membership check.
func (h *Hub) Subscribe(groupID uint, identity string) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if _, exists := h.clients[identity]; !exists {
		return
	}
	if h.subs[groupID] == nil {
		h.subs[groupID] = make(map[string]struct{})
	}
	h.subs[groupID][identity] = struct{}{}
	if h.clientSubs[identity] == nil {
		h.clientSubs[identity] = make(map[uint]struct{})
	}
	h.clientSubs[identity][groupID] = struct{}{}
}

// Unsubscribe detaches the identity from a group's channel.
func (h *Hub) Unsubscribe(groupID uint, identity string) {
	h.mux.Lock()
	defer h.mux.Unlock()
	delete(h.subs[groupID], identity)
	if len(h.subs[groupID]) == 0 {
		delete(h.subs, groupID)
	}
	delete(h.clientSubs[identity], groupID)
}

// IsSubscribed reports whether identity currently has a live subscription to
// the group's channel.
func (h *Hub) IsSubscribed(groupID uint, identity string) bool {
	h.mux.RLock()
	defer h.mux.RUnlock()
	_, ok := h.subs[groupID][identity]
	return ok
}

// IsOnline checks if an identity is connected
func (h *Hub) IsOnline(identity string) bool {
	h.mux.RLock()
	defer h.mux.RUnlock()
	_, exists := h.clients[identity]
	return exists
}

// BroadcastToGroup pushes data to every connection subscribed to the group's
// channel. Dead connections are unregistered on write failure.
func (h *Hub) BroadcastToGroup(groupID uint, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling broadcast data for group %d: %v", groupID, err)
		return
	}

	h.mux.RLock()
	targets := make([]*ClientConnection, 0, len(h.subs[groupID]))
	for identity := range h.subs[groupID] {
		if clientConn, exists := h.clients[identity]; exists {
			targets = append(targets, clientConn)
		}
	}
	h.mux.RUnlock()

	for _, clientConn := range targets {
		if err := clientConn.Conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
			log.Printf("Error broadcasting to %s: %v", clientConn.Identity, err)
			h.Unregister(clientConn.Identity)
		}
	}
}

// SendToIdentity sends data to a specific connected identity.
func (h *Hub) SendToIdentity(identity string, data interface{}) error {
	h.mux.RLock()
	clientConn, exists := h.clients[identity]
	h.mux.RUnlock()
	if !exists {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := clientConn.Conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
		log.Printf("Error sending to %s: %v", identity, err)
		h.Unregister(identity)
		return err
	}
	return nil
}

// OnlineIdentities returns the currently connected identities
func (h *Hub) OnlineIdentities() []string {
	h.mux.RLock()
	defer h.mux.RUnlock()

	identities := make([]string, 0, len(h.clients))
	for identity := range h.clients {
		identities = append(identities, identity)
	}
	return identities
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns how many connections follow a group's channel.
func (h *Hub) SubscriberCount(groupID uint) int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.subs[groupID])
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for %s: %v", client.Identity, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.mux.RLock()
			_, exists := h.clients[client.Identity]
			h.mux.RUnlock()

			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for %s: %v", client.Identity, err)
				h.Unregister(client.Identity)
				return
			}
		}
	}
}

// connectionHealthChecker monitors connection health and removes dead connections
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mux.RLock()
		deadConnections := make([]string, 0)
		now := time.Now()

		for identity, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, identity)
			}
		}
		h.mux.RUnlock()

		for _, identity := range deadConnections {
			log.Printf("Removing dead connection for %s (no pong received)", identity)
			h.Unregister(identity)
		}
	}
}
