// internal/models/card.go
package models

// Card is an immutable (suit, rank) value. Game logic compares cards by rank
// only; the suit exists for display and for keeping the 52 cards distinct.
type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// Suits and Ranks enumerate the standard 52-card deck.
var (
	Suits = []string{"Hearts", "Diamonds", "Clubs", "Spades"}
	Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

func (c Card) String() string {
	return c.Rank + " of " + c.Suit
}
