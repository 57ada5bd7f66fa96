package deck

import (
	rand "math/rand/v2"
	"time"

	"github.com/jackehuynh/blackjack-bot/internal/randutil"
)

// Deck represents an ordered, single 52-card deck. Cards are drawn from
// the top and never returned; a new round gets a new deck.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a shuffled 52-card deck seeded from the current time.
func New() *Deck {
	return NewWithRNG(randutil.New(time.Now().UnixNano()))
}

// NewWithRNG creates a shuffled deck using the provided RNG. Passing a
// fixed-seed RNG makes the card order reproducible for tests.
func NewWithRNG(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	d.Shuffle()
	return d
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates).
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. The second return is false when
// the deck is empty; an empty deck is an expected condition, not an error.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// NewStacked creates a deck that deals the given cards in order: the
// first argument is the first card drawn. Intended for tests and demos
// that need a known card sequence.
func NewStacked(cards ...Card) *Deck {
	d := &Deck{
		cards: make([]Card, 0, len(cards)),
		rng:   randutil.New(0),
	}
	for i := len(cards) - 1; i >= 0; i-- {
		d.cards = append(d.cards, cards[i])
	}
	return d
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
