// internal/game/store.go
package game

import "sync"

// Store keeps the live games in memory, keyed by lobby id. A lobby id has at
// most one game at a time; the entry is created when the lobby starts and
// deleted when the game completes.
type Store struct {
	mu    sync.Mutex
	games map[string]*ERSGame
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*ERSGame),
	}
}

func (s *Store) Add(g *ERSGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.LobbyID] = g
}

func (s *Store) Get(lobbyID string) (*ERSGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[lobbyID]
	return g, exists
}

func (s *Store) Delete(lobbyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, lobbyID)
}
