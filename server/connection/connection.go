package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection. PlayerID is set by the first command
// that names a player and never changes afterwards.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string
}

// Manager tracks connections, the player bound to each, and the tables each
// one follows
type Manager struct {
	mutex       sync.RWMutex
	clients     map[string]*Client
	players     map[string]string              // player ID -> client ID
	subscribers map[string]map[string]struct{} // table ID -> client IDs

	Unregister chan *Client
	stop       chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:     make(map[string]*Client),
		players:     make(map[string]string),
		subscribers: make(map[string]map[string]struct{}),
		Unregister:  make(chan *Client),
		stop:        make(chan struct{}),
	}
}

// Register adds a client; it can be addressed as soon as Register returns
func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.clients[client.ID] = client
	if client.PlayerID != "" {
		m.players[client.PlayerID] = client.ID
	}
}

// Start processes disconnections until Stop is called
func (m *Manager) Start() {
	for {
		select {
		case <-m.stop:
			return
		case client := <-m.Unregister:
			m.remove(client)
		}
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	if m.players[client.PlayerID] == client.ID {
		delete(m.players, client.PlayerID)
	}
	for tableID, subs := range m.subscribers {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(m.subscribers, tableID)
		}
	}
	delete(m.clients, client.ID)
	close(client.Send)
}

// Stop ends the Start loop
func (m *Manager) Stop() {
	close(m.stop)
}

// Disconnect hands the client to the Start loop for removal
func (m *Manager) Disconnect(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.stop:
	}
}

// send never blocks: a client too slow to drain its buffer misses messages
// rather than stalling a table. Callers hold the read lock.
func send(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// SendToClient sends a message to one connection
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return send(client, message)
	}
	return false
}

// SendToPlayer sends a message to the connection bound to a player
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[m.players[playerID]]; ok {
		return send(client, message)
	}
	return false
}

// SendToTable sends a message to every connection following a table
func (m *Manager) SendToTable(tableID string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for clientID := range m.subscribers[tableID] {
		if client, ok := m.clients[clientID]; ok && send(client, message) {
			sent++
		}
	}
	return sent
}

// BindPlayer ties a player to a connection. It fails when the connection is
// unknown or already bound to someone else.
func (m *Manager) BindPlayer(clientID string, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok || (client.PlayerID != "" && client.PlayerID != playerID) {
		return false
	}
	client.PlayerID = playerID
	m.players[playerID] = clientID
	return true
}

// PlayerOf returns the player bound to a connection
func (m *Manager) PlayerOf(clientID string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return client.PlayerID
	}
	return ""
}

// Subscribe makes a connection receive a table's events
func (m *Manager) Subscribe(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[clientID]; !ok {
		return false
	}
	subs, ok := m.subscribers[tableID]
	if !ok {
		subs = make(map[string]struct{})
		m.subscribers[tableID] = subs
	}
	subs[clientID] = struct{}{}
	return true
}

// Unsubscribe stops a connection receiving a table's events
func (m *Manager) Unsubscribe(clientID string, tableID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if subs, ok := m.subscribers[tableID]; ok {
		delete(subs, clientID)
		if len(subs) == 0 {
			delete(m.subscribers, tableID)
		}
	}
}

// Subscribed reports whether a connection follows a table
func (m *Manager) Subscribed(clientID string, tableID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, ok := m.subscribers[tableID][clientID]
	return ok
}
