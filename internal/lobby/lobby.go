// internal/lobby/lobby.go
package lobby

// Session is the ephemeral pre-game roster for a lobby id. It exists only
// until a game starts for that id, at which point the session is consumed:
// the roster becomes the game's seat order and the session is deleted.
//
// The first player to join becomes the creator and is the only one allowed
// to start the game. Join order is kept explicitly so that seat order is
// deterministic.
type Session struct {
	ID      string
	Creator string

	players []string
}

func NewSession(id, creator string) *Session {
	return &Session{
		ID:      id,
		Creator: creator,
		players: []string{creator},
	}
}

// Join adds a player to the roster, preserving join order. Joining twice is
// a no-op rejoin; the seat is kept.
func (s *Session) Join(name string) bool {
	if s.Has(name) {
		return false
	}
	s.players = append(s.players, name)
	return true
}

// Leave removes a player. If the departing player was the creator, the
// oldest remaining joiner inherits the role.
func (s *Session) Leave(name string) bool {
	for i, p := range s.players {
		if p == name {
			s.players = append(s.players[:i], s.players[i+1:]...)
			if s.Creator == name && len(s.players) > 0 {
				s.Creator = s.players[0]
			}
			return true
		}
	}
	return false
}

func (s *Session) Has(name string) bool {
	for _, p := range s.players {
		if p == name {
			return true
		}
	}
	return false
}

// Players returns the roster in join order. The slice is a copy; the session
// keeps ownership of its own state.
func (s *Session) Players() []string {
	out := make([]string, len(s.players))
	copy(out, s.players)
	return out
}

func (s *Session) Len() int {
	return len(s.players)
}
