// internal/models/player.go
package models

// Player holds one participant's ordered hand. Cards are played from the
// front and won cards are appended to the back, so the hand behaves as a
// FIFO queue. A Player is owned exclusively by one game once play starts;
// the game's serialization layer guards all access.
type Player struct {
	Name   string `json:"name"`
	Hand   []Card `json:"-"`
	Active bool   `json:"active"`
}

func NewPlayer(name string) *Player {
	return &Player{Name: name, Active: true}
}

func (p *Player) HasCards() bool {
	return len(p.Hand) > 0
}

func (p *Player) CardCount() int {
	return len(p.Hand)
}

// AddCard appends a single card to the back of the hand.
func (p *Player) AddCard(c Card) {
	p.Hand = append(p.Hand, c)
	p.Active = true
}

// AddCards appends won cards, preserving their pile order.
func (p *Player) AddCards(cards []Card) {
	p.Hand = append(p.Hand, cards...)
	if len(p.Hand) > 0 {
		p.Active = true
	}
}

// PopCard removes and returns the front card of the hand. The second return
// is false when the hand is empty; callers treat that as a skip, not a fault.
func (p *Player) PopCard() (Card, bool) {
	if len(p.Hand) == 0 {
		p.Active = false
		return Card{}, false
	}
	c := p.Hand[0]
	p.Hand = p.Hand[1:]
	return c, true
}
