// internal/ws/registry.go
package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Conn is one player's live presence: a buffered outbound channel drained by
// the connection's write pump. Sends are non-blocking; a full or abandoned
// channel drops the message so a slow client can never stall the lobby.
type Conn struct {
	Lobby   string
	Player  string
	OutChan chan []byte
	Cancel  func()

	logger *logrus.Logger
}

// Write pushes raw bytes onto the out channel without blocking. Dropped
// messages are logged and otherwise ignored.
func (c *Conn) Write(msg []byte) {
	defer func() {
		// The channel may be closed concurrently by a disconnect; losing
		// the message to a closed channel is the same as dropping it.
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"lobby":  c.Lobby,
				"player": c.Player,
			}).Warn("write to closed connection dropped")
		}
	}()
	select {
	case c.OutChan <- msg:
	default:
		c.logger.WithFields(logrus.Fields{
			"lobby":  c.Lobby,
			"player": c.Player,
		}).Warn("outbound channel full, message dropped")
	}
}

// Registry maps (lobby, player) to live outbound channels and owns
// broadcast/unicast delivery. Engine state is entirely independent of the
// registry: emptying a lobby's connection map prunes only the map entry.
type Registry struct {
	logger *logrus.Logger

	mu    sync.Mutex
	conns map[string]map[string]*Conn
}

func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{
		logger: logger,
		conns:  make(map[string]map[string]*Conn),
	}
}

// Connect registers a connection for (lobby, player), replacing and closing
// any prior channel for the same key.
func (r *Registry) Connect(lobbyID, player string, bufSize int, cancel func()) *Conn {
	conn := &Conn{
		Lobby:   lobbyID,
		Player:  player,
		OutChan: make(chan []byte, bufSize),
		Cancel:  cancel,
		logger:  r.logger,
	}

	r.mu.Lock()
	if r.conns[lobbyID] == nil {
		r.conns[lobbyID] = make(map[string]*Conn)
	}
	old := r.conns[lobbyID][player]
	r.conns[lobbyID][player] = conn
	r.mu.Unlock()

	if old != nil {
		close(old.OutChan)
		if old.Cancel != nil {
			old.Cancel()
		}
	}
	return conn
}

// Disconnect removes the entry for (lobby, player) and prunes the lobby's
// connection map when it becomes empty. A stale disconnect (the player has
// already reconnected with a new channel) is a no-op and returns false, so
// the caller knows not to treat the player as having left.
func (r *Registry) Disconnect(lobbyID, player string, conn *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	players, ok := r.conns[lobbyID]
	if !ok {
		return false
	}
	current, ok := players[player]
	if !ok || (conn != nil && current != conn) {
		return false
	}
	delete(players, player)
	if len(players) == 0 {
		delete(r.conns, lobbyID)
	}
	close(current.OutChan)
	return true
}

// Broadcast marshals the message once and sends it to every registered
// channel in the lobby except excludePlayer (pass "" to exclude nobody). A
// failed send to one channel never prevents delivery to the rest.
func (r *Registry) Broadcast(lobbyID string, msg interface{}, excludePlayer string) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Errorf("failed to marshal broadcast for lobby %s: %v", lobbyID, err)
		return
	}

	r.mu.Lock()
	targets := make([]*Conn, 0, len(r.conns[lobbyID]))
	for player, conn := range r.conns[lobbyID] {
		if player == excludePlayer {
			continue
		}
		targets = append(targets, conn)
	}
	r.mu.Unlock()

	for _, conn := range targets {
		conn.Write(data)
	}
}

// Unicast sends to exactly one channel if present, else is a no-op.
func (r *Registry) Unicast(lobbyID, player string, msg interface{}) {
	r.mu.Lock()
	conn := r.conns[lobbyID][player]
	r.mu.Unlock()
	if conn == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Errorf("failed to marshal unicast for %s/%s: %v", lobbyID, player, err)
		return
	}
	conn.Write(data)
}

// Count returns the number of live connections in a lobby.
func (r *Registry) Count(lobbyID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns[lobbyID])
}
