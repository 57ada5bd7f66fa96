package blackjack

import "github.com/jackehuynh/blackjack-bot/internal/deck"

const (
	// dealerStandsAt is the dealer's fixed-strategy threshold: the dealer
	// draws while its total is below this and stands once it reaches it.
	dealerStandsAt = 17

	// minDealCards is the fewest cards a deck needs for an initial deal.
	minDealCards = 4
)

// Game runs a single round of player-vs-dealer blackjack. It owns its
// deck and both hands; nothing is shared between rounds. All expected
// game conditions (empty deck, calls on a finished round) surface
// through the returned RoundState, never as errors or panics.
//
// A Game is not safe for concurrent use. The one-active-round-per-player
// rule is the caller's job (see the session package).
type Game struct {
	deck    *deck.Deck
	player  *Hand
	dealer  *Hand
	wager   int64
	phase   Phase
	outcome Outcome
	status  string
}

// NewGame creates a round with a freshly shuffled deck. The wager is
// carried opaquely for the settlement layer; the engine never validates
// or inspects it.
func NewGame(wager int64) *Game {
	return NewGameWithDeck(wager, deck.New())
}

// NewGameWithDeck creates a round over the provided deck. Used by tests
// and demos that need a deterministic card order.
func NewGameWithDeck(wager int64, d *deck.Deck) *Game {
	return &Game{
		deck:   d,
		player: NewHand(),
		dealer: NewHand(),
		wager:  wager,
		phase:  AwaitingDeal,
	}
}

// Wager returns the amount staked on the round
func (g *Game) Wager() int64 {
	return g.wager
}

// Over returns true once the round has reached a terminal state
func (g *Game) Over() bool {
	return g.phase == RoundOver
}

// Outcome returns the round's result, or OutcomeNone while it is live
// (or if it ended without a winner, e.g. the deck ran out).
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Status returns the human-readable status line for the round
func (g *Game) Status() string {
	return g.status
}

// Phase returns the round's current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Deal draws the opening four cards, strictly interleaved
// player/dealer/player/dealer, and evaluates naturals. With fewer than
// four cards in the deck the round ends immediately with no outcome;
// callers should treat that as a refund. A player natural ends the
// round at once: push if the dealer also holds one, otherwise a
// blackjack win. A dealer-only natural is not checked here; it only
// comes to light if the player stands.
func (g *Game) Deal() RoundState {
	if g.phase != AwaitingDeal {
		g.status = "round already dealt"
		return g.Snapshot()
	}

	if g.deck.Len() < minDealCards {
		g.status = "cannot start: not enough cards in the deck"
		g.phase = RoundOver
		return g.Snapshot()
	}

	for i := 0; i < 2; i++ {
		g.drawInto(g.player)
		g.drawInto(g.dealer)
	}

	g.phase = PlayerTurn
	g.status = "your turn: hit or stand"

	if g.player.IsBlackjack() {
		if g.dealer.IsBlackjack() {
			g.outcome = Push
			g.status = "push: both player and dealer have blackjack"
		} else {
			g.outcome = PlayerBlackjack
			g.status = "blackjack! player wins"
		}
		g.phase = RoundOver
	}

	return g.Snapshot()
}

// Hit draws one card into the player's hand. A bust ends the round in
// the dealer's favor; an empty deck ends it with no outcome. Calling
// Hit on a finished round is a harmless no-op.
func (g *Game) Hit() RoundState {
	if g.phase != PlayerTurn {
		g.status = "round is already over"
		return g.Snapshot()
	}

	card, ok := g.deck.Draw()
	if !ok {
		g.status = "deck is empty, round cannot continue"
		g.phase = RoundOver
		return g.Snapshot()
	}

	g.player.Add(card)
	if g.player.IsBust() {
		g.outcome = DealerWins
		g.status = "player busts, dealer wins"
		g.phase = RoundOver
		return g.Snapshot()
	}

	g.status = "your turn: hit or stand"
	return g.Snapshot()
}

// Stand ends the player's turn and auto-plays the dealer: draw while
// below 17, where deck exhaustion just stops the loop. The round is
// then scored: a busted dealer loses, otherwise the higher total wins
// and equal totals push. Standing on a finished round returns the
// already-decided result without replaying the dealer.
func (g *Game) Stand() RoundState {
	if g.phase == RoundOver {
		return g.Snapshot()
	}
	if g.phase != PlayerTurn {
		g.status = "round has not been dealt"
		return g.Snapshot()
	}

	g.phase = DealerTurn
	for g.dealer.Value() < dealerStandsAt {
		card, ok := g.deck.Draw()
		if !ok {
			break
		}
		g.dealer.Add(card)
	}

	playerValue := g.player.Value()
	dealerValue := g.dealer.Value()

	switch {
	case g.player.IsBust():
		g.outcome = DealerWins
		g.status = "player busts, dealer wins"
	case g.dealer.IsBust():
		g.outcome = PlayerWins
		g.status = "dealer busts, player wins"
	case playerValue > dealerValue:
		g.outcome = PlayerWins
		g.status = "player wins"
	case dealerValue > playerValue:
		g.outcome = DealerWins
		g.status = "dealer wins"
	default:
		g.outcome = Push
		g.status = "push"
	}

	g.phase = RoundOver
	return g.Snapshot()
}

func (g *Game) drawInto(h *Hand) {
	if card, ok := g.deck.Draw(); ok {
		h.Add(card)
	}
}
