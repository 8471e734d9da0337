// internal/game/game.go
package game

import (
	"github.com/google/uuid"

	"github.com/mkrench/ratscrew/internal/models"
)

// ERSGame holds the entire state for a single Egyptian Ratscrew game in
// memory: the fixed player rotation, the shared pile, and the face-card
// chain bookkeeping.
//
// The engine itself is not goroutine-safe. All access goes through the
// per-lobby serialization in the service package, so at most one action ever
// reads or mutates a game at a time.
type ERSGame struct {
	ID      uuid.UUID
	LobbyID string

	// Players is fixed in seat order once the game starts. Players are never
	// removed from the rotation; an empty-handed player's turns are skipped.
	Players []*models.Player

	// Pile is ordered bottom-to-top: index 0 is the oldest card, the last
	// element is the most recently played card. Burns go to the bottom.
	Pile []models.Card

	CurrentPlayerIndex int

	// FaceCardPlayer is the player who played the face card currently being
	// challenged; they collect the pile if the chain runs out unslapped.
	// RemainingPlays > 0 implies FaceCardPlayer is set.
	FaceCardPlayer *models.Player
	RemainingPlays int
}

// TurnResult describes the outcome of a single PlayTurn call.
type TurnResult struct {
	Player string
	// Card is the card placed on the pile, nil when the turn was skipped.
	Card *models.Card
	// Skipped marks an empty-handed player whose turn was passed over.
	Skipped bool
	// PileCollected is set when the chain ran out and the face-card player
	// took the pile.
	PileCollected bool
	// Winner is the player left holding all 52 cards, empty if none.
	Winner string
}

// NewERSGame creates a game for the given player names in seat order. The
// deck is not dealt until Start.
func NewERSGame(lobbyID string, names []string) *ERSGame {
	id, _ := uuid.NewRandom()
	g := &ERSGame{ID: id, LobbyID: lobbyID}
	for _, name := range names {
		g.Players = append(g.Players, models.NewPlayer(name))
	}
	return g
}

// Start shuffles a fresh deck and deals it round-robin.
func (g *ERSGame) Start() {
	deck := NewDeck()
	Shuffle(deck)
	deal(deck, g.Players)
}

// CurrentPlayer returns the player whose turn it is.
func (g *ERSGame) CurrentPlayer() *models.Player {
	return g.Players[g.CurrentPlayerIndex]
}

// PlayTurn pops the current player's front card onto the pile and advances
// the turn. A face card opens a chain: the following players in rotation
// must each produce a play, and if the chain runs out without a face card or
// a successful slap, the face-card player collects the whole pile and play
// resumes at them. Empty-handed players are skipped without fault.
func (g *ERSGame) PlayTurn() TurnResult {
	actor := g.CurrentPlayer()
	res := TurnResult{Player: actor.Name}

	card, ok := actor.PopCard()
	if !ok {
		// Never remove the player; just pass their turn.
		g.advance()
		if g.RemainingPlays > 0 && g.CurrentPlayer() == g.FaceCardPlayer {
			g.advance()
		}
		// A chain nobody can answer resolves in the face-card player's favor.
		if g.RemainingPlays > 0 && !g.anyChallengerHasCards() {
			g.collectChain()
			res.PileCollected = true
		}
		res.Skipped = true
		res.Winner = g.Winner()
		return res
	}

	g.Pile = append(g.Pile, card)
	res.Card = &card

	if IsFaceCard(card) {
		g.FaceCardPlayer = actor
		g.RemainingPlays = FaceCardPlays(card)
	} else if g.RemainingPlays > 0 {
		g.RemainingPlays--
	}
	g.advance()

	// While a chain is live the face-card player never answers their own
	// challenge; their seat is passed over until the chain resolves.
	if g.RemainingPlays > 0 && g.CurrentPlayer() == g.FaceCardPlayer {
		g.advance()
	}

	// Chain exhausted and never slapped away: the face-card player takes
	// the pile and leads the next trick.
	if g.RemainingPlays == 0 && g.FaceCardPlayer != nil {
		g.collectChain()
		res.PileCollected = true
	}

	res.Winner = g.Winner()
	return res
}

// AttemptSlap resolves one slap attempt. A valid slap collects the entire
// pile, resets the turn to the slapper and clears any chain. An invalid slap
// burns one card from the front of the slapper's hand to the bottom of the
// pile; a slapper with no cards loses nothing.
func (g *ERSGame) AttemptSlap(player *models.Player) bool {
	if IsSlapValid(g.Pile) {
		player.AddCards(g.Pile)
		g.Pile = nil
		g.CurrentPlayerIndex = g.indexOf(player)
		g.FaceCardPlayer = nil
		g.RemainingPlays = 0
		return true
	}
	if card, ok := player.PopCard(); ok {
		g.Pile = append([]models.Card{card}, g.Pile...)
	}
	return false
}

// CanSlap reports whether the pile is long enough to be contested.
func (g *ERSGame) CanSlap() bool {
	return len(g.Pile) >= 2
}

// Winner returns the name of the player holding all 52 cards, or "" if the
// game is still live. Holding every card is the only win condition; being
// the last player with a non-empty hand is not enough while cards sit on
// the pile.
func (g *ERSGame) Winner() string {
	for _, p := range g.Players {
		if p.CardCount() == 52 {
			return p.Name
		}
	}
	return ""
}

// IsGameOver reports whether exactly one player holds the full deck.
func (g *ERSGame) IsGameOver() bool {
	return g.Winner() != ""
}

// PlayerByName finds a seated player, or nil.
func (g *ERSGame) PlayerByName(name string) *models.Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// CardCount totals cards across all hands and the pile. It is 52 from the
// deal onward; tests use it to pin card conservation.
func (g *ERSGame) CardCount() int {
	n := len(g.Pile)
	for _, p := range g.Players {
		n += p.CardCount()
	}
	return n
}

// collectChain hands the whole pile to the face-card player and resets the
// turn to them.
func (g *ERSGame) collectChain() {
	g.FaceCardPlayer.AddCards(g.Pile)
	g.Pile = nil
	g.CurrentPlayerIndex = g.indexOf(g.FaceCardPlayer)
	g.FaceCardPlayer = nil
	g.RemainingPlays = 0
}

// anyChallengerHasCards reports whether any player other than the face-card
// player can still answer the chain.
func (g *ERSGame) anyChallengerHasCards() bool {
	for _, p := range g.Players {
		if p != g.FaceCardPlayer && p.HasCards() {
			return true
		}
	}
	return false
}

func (g *ERSGame) advance() {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
}

func (g *ERSGame) indexOf(player *models.Player) int {
	for i, p := range g.Players {
		if p == player {
			return i
		}
	}
	return 0
}
