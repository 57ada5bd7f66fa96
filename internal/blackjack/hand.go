package blackjack

import "github.com/jackehuynh/blackjack-bot/internal/deck"

// Hand is an ordered collection of cards belonging to one side of a
// round. Insertion order is deal order and matters only for display.
type Hand struct {
	cards []deck.Card
}

// NewHand creates an empty hand
func NewHand() *Hand {
	return &Hand{cards: make([]deck.Card, 0, 8)}
}

// Add appends a card to the hand
func (h *Hand) Add(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Value returns the best legal total for the hand. Every ace counts 11
// provisionally; while the total exceeds 21 and an ace is still counted
// high, one ace at a time is downgraded to 1 (subtract 10). The result
// is the closest total to 21 that the cards allow, or the minimal bust
// total when no downgrade can save the hand.
func (h *Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h.cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}

	return total
}

// IsBust returns true if the hand's value exceeds 21
func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack returns true for a two-card 21 (a natural)
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// Cards returns the cards in deal order. The returned slice is shared;
// callers must not mutate it.
func (h *Hand) Cards() []deck.Card {
	return h.cards
}

// Strings returns each card's display string in deal order
func (h *Hand) Strings() []string {
	out := make([]string, len(h.cards))
	for i, c := range h.cards {
		out[i] = c.String()
	}
	return out
}
