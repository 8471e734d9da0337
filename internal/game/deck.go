// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/mkrench/ratscrew/internal/models"
)

// NewDeck builds the standard 52-card deck in suit-major order.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, 52)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			deck = append(deck, models.Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle permutes the deck in place with a Fisher-Yates pass. The output is
// always a permutation of the input multiset.
func Shuffle(deck []models.Card) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// deal distributes the deck round-robin, one card per player per pass, until
// the deck is empty. The player count need not divide 52 evenly; the first
// players in seat order simply end up one card ahead.
func deal(deck []models.Card, players []*models.Player) {
	for i, c := range deck {
		players[i%len(players)].AddCard(c)
	}
}
