// internal/lobby/store.go
package lobby

import "sync"

// Store manages ephemeral lobby sessions in memory only.
type Store struct {
	mu      sync.Mutex
	lobbies map[string]*Session
}

func NewStore() *Store {
	return &Store{
		lobbies: make(map[string]*Session),
	}
}

func (s *Store) Add(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[session.ID] = session
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	return l, ok
}

// Delete removes a session, typically because it was consumed by a game
// start or because the last player left.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, id)
}
