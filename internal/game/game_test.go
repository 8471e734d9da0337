// internal/game/game_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrench/ratscrew/internal/models"
)

// riggedGame builds a game with hand contents fixed per player, bypassing
// the shuffle, so turn sequences are deterministic.
func riggedGame(hands map[string][]models.Card, seatOrder ...string) *ERSGame {
	g := NewERSGame("test-lobby", seatOrder)
	for _, p := range g.Players {
		p.Hand = append([]models.Card{}, hands[p.Name]...)
	}
	return g
}

func TestStartDealsFullDeck(t *testing.T) {
	g := NewERSGame("test-lobby", []string{"alice", "bob"})
	g.Start()

	assert.Equal(t, 26, g.Players[0].CardCount())
	assert.Equal(t, 26, g.Players[1].CardCount())
	assert.Equal(t, 52, g.CardCount())
	assert.Empty(t, g.Pile)
	assert.False(t, g.IsGameOver())
}

func TestPlayTurnAdvancesRotation(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": cards("4", "9"),
		"bob":   cards("6"),
		"carol": cards("8"),
	}, "alice", "bob", "carol")

	res := g.PlayTurn()
	assert.Equal(t, "alice", res.Player)
	require.NotNil(t, res.Card)
	assert.Equal(t, "4", res.Card.Rank)
	assert.Equal(t, 1, g.CurrentPlayerIndex)

	g.PlayTurn()
	assert.Equal(t, 2, g.CurrentPlayerIndex)

	// Third play wraps back to the first seat.
	g.PlayTurn()
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Len(t, g.Pile, 3)
}

func TestPlayTurnSkipsEmptyHand(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": nil,
		"bob":   cards("6", "9"),
	}, "alice", "bob")

	res := g.PlayTurn()
	assert.True(t, res.Skipped)
	assert.Nil(t, res.Card)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Empty(t, g.Pile)
	// The empty-handed player keeps their seat in the rotation.
	assert.Len(t, g.Players, 2)
}

func TestFaceCardChainCollectedByFaceCardPlayer(t *testing.T) {
	// alice leads a K: bob, carol and bob again must answer with three
	// non-face plays, then alice collects the whole pile and leads.
	g := riggedGame(map[string][]models.Card{
		"alice": cards("K"),
		"bob":   cards("4", "9"),
		"carol": cards("6", "2"),
	}, "alice", "bob", "carol")

	res := g.PlayTurn()
	assert.Equal(t, "alice", res.Player)
	assert.Equal(t, 3, g.RemainingPlays)
	require.NotNil(t, g.FaceCardPlayer)
	assert.Equal(t, "alice", g.FaceCardPlayer.Name)

	res = g.PlayTurn()
	assert.Equal(t, "bob", res.Player)
	assert.Equal(t, 2, g.RemainingPlays)
	assert.False(t, res.PileCollected)

	res = g.PlayTurn()
	assert.Equal(t, "carol", res.Player)
	assert.Equal(t, 1, g.RemainingPlays)

	res = g.PlayTurn()
	assert.Equal(t, "bob", res.Player)
	assert.True(t, res.PileCollected)

	assert.Empty(t, g.Pile)
	assert.Equal(t, 4, g.PlayerByName("alice").CardCount())
	assert.Equal(t, "alice", g.CurrentPlayer().Name)
	assert.Nil(t, g.FaceCardPlayer)
	assert.Equal(t, 0, g.RemainingPlays)
}

func TestFaceCardDuringChainRestartsChain(t *testing.T) {
	// bob answers alice's K with a J; the chain obligation transfers to bob
	// with a fresh count.
	g := riggedGame(map[string][]models.Card{
		"alice": cards("K", "3"),
		"bob":   cards("J", "9"),
	}, "alice", "bob")

	g.PlayTurn()
	g.PlayTurn()

	require.NotNil(t, g.FaceCardPlayer)
	assert.Equal(t, "bob", g.FaceCardPlayer.Name)
	assert.Equal(t, 1, g.RemainingPlays)
	assert.Equal(t, "alice", g.CurrentPlayer().Name)

	res := g.PlayTurn()
	assert.Equal(t, "alice", res.Player)
	assert.True(t, res.PileCollected)
	assert.Equal(t, 3, g.PlayerByName("bob").CardCount())
	assert.Equal(t, "bob", g.CurrentPlayer().Name)
}

func TestAttemptSlapValidPile(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": cards("3"),
		"bob":   cards("9"),
	}, "alice", "bob")
	g.Pile = cards("5", "7", "7")

	bob := g.PlayerByName("bob")
	ok := g.AttemptSlap(bob)

	assert.True(t, ok)
	assert.Empty(t, g.Pile)
	assert.Equal(t, 4, bob.CardCount())
	assert.Equal(t, "bob", g.CurrentPlayer().Name)
	assert.Nil(t, g.FaceCardPlayer)
	assert.Equal(t, 0, g.RemainingPlays)
}

func TestAttemptSlapClearsChain(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": cards("K", "2"),
		"bob":   cards("Q", "9"),
	}, "alice", "bob")

	g.PlayTurn() // K
	g.PlayTurn() // Q on K: marriage on top, chain transferred to bob

	alice := g.PlayerByName("alice")
	ok := g.AttemptSlap(alice)

	assert.True(t, ok)
	assert.Nil(t, g.FaceCardPlayer)
	assert.Equal(t, 0, g.RemainingPlays)
	assert.Equal(t, "alice", g.CurrentPlayer().Name)
	assert.Equal(t, 3, alice.CardCount())
}

func TestAttemptSlapInvalidBurnsOneCard(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": cards("3"),
		"bob":   cards("9", "J"),
	}, "alice", "bob")
	g.Pile = cards("5", "8")

	bob := g.PlayerByName("bob")
	ok := g.AttemptSlap(bob)

	assert.False(t, ok)
	assert.Equal(t, 1, bob.CardCount())
	// The burned card goes to the bottom of the pile.
	require.Len(t, g.Pile, 3)
	assert.Equal(t, "9", g.Pile[0].Rank)
	assert.Equal(t, "8", g.Pile[2].Rank)
}

func TestAttemptSlapEmptyHandedBurnsNothing(t *testing.T) {
	g := riggedGame(map[string][]models.Card{
		"alice": cards("3"),
		"bob":   nil,
	}, "alice", "bob")
	g.Pile = cards("5", "8")

	ok := g.AttemptSlap(g.PlayerByName("bob"))

	assert.False(t, ok)
	assert.Len(t, g.Pile, 2)
}

func TestChainNobodyCanAnswer(t *testing.T) {
	// bob's only card answers the first of alice's three forced plays; once
	// he is empty the chain cannot be completed and alice takes the pile.
	g := riggedGame(map[string][]models.Card{
		"alice": cards("K", "5"),
		"bob":   cards("9"),
	}, "alice", "bob")

	g.PlayTurn() // alice: K, chain of 3
	g.PlayTurn() // bob: 9, chain at 2, bob now empty

	res := g.PlayTurn() // bob's seat again, nothing to play
	assert.True(t, res.Skipped)
	assert.True(t, res.PileCollected)

	assert.Empty(t, g.Pile)
	assert.Equal(t, 0, g.RemainingPlays)
	assert.Nil(t, g.FaceCardPlayer)
	assert.Equal(t, "alice", g.CurrentPlayer().Name)
	assert.Equal(t, 3, g.PlayerByName("alice").CardCount())
}

func TestCanSlap(t *testing.T) {
	g := riggedGame(map[string][]models.Card{"alice": nil, "bob": nil}, "alice", "bob")
	assert.False(t, g.CanSlap())
	g.Pile = cards("5")
	assert.False(t, g.CanSlap())
	g.Pile = cards("5", "8")
	assert.True(t, g.CanSlap())
}

func TestWinnerRequiresAllFiftyTwo(t *testing.T) {
	g := NewERSGame("test-lobby", []string{"alice", "bob"})
	g.Start()

	assert.Equal(t, "", g.Winner())
	assert.False(t, g.IsGameOver())

	// Move every card to alice.
	alice := g.PlayerByName("alice")
	bob := g.PlayerByName("bob")
	alice.AddCards(bob.Hand)
	bob.Hand = nil

	assert.Equal(t, "alice", g.Winner())
	assert.True(t, g.IsGameOver())

	// Holding 51 with one on the pile is not a win.
	c, _ := alice.PopCard()
	g.Pile = append(g.Pile, c)
	assert.Equal(t, "", g.Winner())
	assert.False(t, g.IsGameOver())
}

func TestCardConservation(t *testing.T) {
	g := NewERSGame("test-lobby", []string{"alice", "bob", "carol"})
	g.Start()

	for i := 0; i < 100; i++ {
		g.PlayTurn()
		assert.Equal(t, 52, g.CardCount())
		if i%7 == 0 {
			g.AttemptSlap(g.Players[i%3])
			assert.Equal(t, 52, g.CardCount())
		}
		if g.IsGameOver() {
			break
		}
	}
}
