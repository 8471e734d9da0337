// internal/game/ruleset.go
package game

import "github.com/mkrench/ratscrew/internal/models"

// The ruleset is a pure, stateless predicate library. Nothing here mutates
// the pile; callers pass the pile bottom-to-top (index 0 is the bottom, the
// last element is the most recently played card).

var faceCardPlays = map[string]int{
	"J": 1,
	"Q": 2,
	"K": 3,
	"A": 4,
}

// IsFaceCard reports whether the card starts a forced-play chain.
func IsFaceCard(c models.Card) bool {
	_, ok := faceCardPlays[c.Rank]
	return ok
}

// FaceCardPlays returns the number of forced plays a face card demands:
// J=1, Q=2, K=3, A=4. Non-face cards return 1.
func FaceCardPlays(c models.Card) int {
	if n, ok := faceCardPlays[c.Rank]; ok {
		return n
	}
	return 1
}

// IsSlapValid reports whether the pile can legally be slapped: a double
// (top two ranks equal), a sandwich (top rank equals third-from-top), a
// marriage (top two are K and Q in either order), or a run of four.
func IsSlapValid(pile []models.Card) bool {
	n := len(pile)
	if n < 2 {
		return false
	}

	if pile[n-1].Rank == pile[n-2].Rank {
		return true
	}

	if n >= 3 && pile[n-1].Rank == pile[n-3].Rank {
		return true
	}

	top, second := pile[n-1].Rank, pile[n-2].Rank
	if (top == "K" && second == "Q") || (top == "Q" && second == "K") {
		return true
	}

	if n >= 4 && isFourInARow(pile[n-4:]) {
		return true
	}
	return false
}

// runWindows is the fixed table of ascending four-card windows a run may
// match, with Ace valued as either 1 or 14. This is an enumerated table, not
// general modular wraparound: [Q,A,2,3] is deliberately not a run.
var runWindows = [][4]int{
	{1, 2, 3, 4},
	{11, 12, 13, 14},
	{13, 14, 1, 2},
}

// isFourInARow checks exactly four cards against the run table, forwards and
// reversed, under both Ace=1 and Ace=14 valuations.
func isFourInARow(cards []models.Card) bool {
	if len(cards) != 4 {
		return false
	}
	var low, high [4]int
	for i, c := range cards {
		low[i] = cardValue(c, false)
		high[i] = cardValue(c, true)
	}
	for _, w := range runWindows {
		rev := [4]int{w[3], w[2], w[1], w[0]}
		if low == w || low == rev || high == w || high == rev {
			return true
		}
	}
	return false
}

// cardValue maps a rank to its numeric value: 2-10 literal, J=11, Q=12,
// K=13, and A either 1 or 14 depending on aceHigh.
func cardValue(c models.Card, aceHigh bool) int {
	switch c.Rank {
	case "A":
		if aceHigh {
			return 14
		}
		return 1
	case "K":
		return 13
	case "Q":
		return 12
	case "J":
		return 11
	case "10":
		return 10
	default:
		return int(c.Rank[0] - '0')
	}
}
