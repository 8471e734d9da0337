// internal/game/deck_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrench/ratscrew/internal/models"
)

func countByCard(deck []models.Card) map[models.Card]int {
	counts := make(map[models.Card]int, len(deck))
	for _, c := range deck {
		counts[c]++
	}
	return counts
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	counts := countByCard(deck)
	assert.Len(t, counts, 52, "all cards must be distinct")
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := NewDeck()
	before := countByCard(deck)

	Shuffle(deck)

	assert.Len(t, deck, 52)
	assert.Equal(t, before, countByCard(deck))
}

func TestDealRoundRobin(t *testing.T) {
	players := []*models.Player{
		models.NewPlayer("alice"),
		models.NewPlayer("bob"),
		models.NewPlayer("carol"),
	}
	deck := NewDeck()
	deal(deck, players)

	// 52 does not divide by 3; the earliest seats get the extra cards.
	assert.Equal(t, 18, players[0].CardCount())
	assert.Equal(t, 17, players[1].CardCount())
	assert.Equal(t, 17, players[2].CardCount())

	// Round-robin: consecutive deck cards land on consecutive seats.
	assert.Equal(t, deck[0], players[0].Hand[0])
	assert.Equal(t, deck[1], players[1].Hand[0])
	assert.Equal(t, deck[2], players[2].Hand[0])
	assert.Equal(t, deck[3], players[0].Hand[1])
}
