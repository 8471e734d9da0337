// internal/service/outcome.go
package service

import (
	"errors"

	"github.com/mkrench/ratscrew/internal/models"
)

// Sentinel errors for rule violations surfaced to the offending sender only.
var (
	ErrNoSuchLobby      = errors.New("lobby does not exist")
	ErrNoSuchGame       = errors.New("no game in progress for this lobby")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrNotCreator       = errors.New("only the lobby creator can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start the game")
	ErrNotSeated        = errors.New("player is not seated in this game")
	ErrNotYourTurn      = errors.New("not your turn")
)

// Kind tags a service outcome for routing by the transport layer.
type Kind string

const (
	KindTurnPlayed  Kind = "turn_played"
	KindGameOver    Kind = "game_over"
	KindError       Kind = "error"
	KindInvalidTurn Kind = "invalid_turn"
	KindLobbyJoined Kind = "lobby_joined"
	KindGameStarted Kind = "game_started"
)

// Outcome is the tagged result of a single serialized action. Engine faults
// never propagate past the service; they surface here as KindError.
type Outcome struct {
	Accepted bool
	Kind     Kind
	Err      error

	// Join results.
	Created     bool
	PlayerCount int

	// Start results: seat order of the new game.
	Players []string

	// Play results.
	Card    *models.Card
	Skipped bool
	CanSlap bool

	// Slap results.
	SlapSuccess bool

	Winner string
	State  *State
}

// State is the read-only snapshot broadcast after every accepted play or
// slap. It mirrors exactly what clients are allowed to see: counts, never
// card identities.
type State struct {
	CurrentPlayer string        `json:"current_player"`
	PileCount     int           `json:"pile_count"`
	Players       []PlayerState `json:"players"`
	IsGameOver    bool          `json:"is_game_over"`
	Winner        string        `json:"winner,omitempty"`
}

type PlayerState struct {
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}

func reject(kind Kind, err error) Outcome {
	return Outcome{Accepted: false, Kind: kind, Err: err}
}
