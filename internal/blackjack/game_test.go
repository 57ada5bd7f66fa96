package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackehuynh/blackjack-bot/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

// stackedGame builds a round over a deck that deals the given cards in
// order. The opening deal consumes them player, dealer, player, dealer.
func stackedGame(t *testing.T, wager int64, cards ...deck.Card) *Game {
	t.Helper()
	return NewGameWithDeck(wager, deck.NewStacked(cards...))
}

func TestDealInterleavesPlayerAndDealer(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.Two),    // player
		card(deck.Hearts, deck.Three),  // dealer
		card(deck.Clubs, deck.Four),    // player
		card(deck.Diamonds, deck.Five), // dealer
	)

	state := g.Deal()
	require.False(t, state.Over)
	assert.Equal(t, PlayerTurn, g.Phase())
	assert.Equal(t, []string{"2♠", "4♣"}, state.Player.Cards)
	assert.Equal(t, 6, state.Player.Value)

	// Live round: only the dealer's up card is visible.
	assert.True(t, state.Dealer.Hidden)
	assert.Equal(t, []string{"3♥"}, state.Dealer.Cards)
	assert.Equal(t, 3, state.Dealer.Value)
}

func TestDealWithTooFewCards(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.Two),
		card(deck.Hearts, deck.Three),
		card(deck.Clubs, deck.Four),
	)

	state := g.Deal()
	require.True(t, state.Over)
	assert.Equal(t, OutcomeNone, g.Outcome())
	assert.Empty(t, state.Outcome)
	assert.Contains(t, state.Status, "cannot start")
	assert.Empty(t, state.Player.Cards, "no cards are dealt when the deck is short")
}

func TestPlayerBlackjackWinsOnDeal(t *testing.T) {
	g := stackedGame(t, 100,
		card(deck.Spades, deck.Ace),     // player
		card(deck.Clubs, deck.Five),     // dealer
		card(deck.Hearts, deck.King),    // player
		card(deck.Diamonds, deck.Queen), // dealer, 15 total
	)

	state := g.Deal()
	require.True(t, state.Over)
	assert.Equal(t, PlayerBlackjack, g.Outcome())
	assert.Equal(t, "player_blackjack", state.Outcome)
	assert.Equal(t, 21, state.Player.Value)

	// Terminal rounds reveal the dealer in full, and the dealer's hand
	// was not drawn beyond the opening two cards.
	assert.False(t, state.Dealer.Hidden)
	assert.Len(t, state.Dealer.Cards, 2)
	assert.Equal(t, 15, state.Dealer.Value)
}

func TestBothBlackjackIsPush(t *testing.T) {
	g := stackedGame(t, 100,
		card(deck.Spades, deck.Ace),  // player
		card(deck.Hearts, deck.Ace),  // dealer
		card(deck.Hearts, deck.King), // player
		card(deck.Clubs, deck.Queen), // dealer
	)

	state := g.Deal()
	require.True(t, state.Over)
	assert.Equal(t, Push, g.Outcome())
	assert.Contains(t, state.Status, "push")
}

func TestDealerNaturalNotCheckedAtDealTime(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.Nine), // player
		card(deck.Hearts, deck.Ace),  // dealer
		card(deck.Clubs, deck.Nine),  // player, 18
		card(deck.Clubs, deck.King),  // dealer natural
	)

	state := g.Deal()
	require.False(t, state.Over, "a dealer-only natural stays concealed until the player stands")
	assert.Equal(t, PlayerTurn, g.Phase())

	state = g.Stand()
	require.True(t, state.Over)
	assert.Equal(t, DealerWins, g.Outcome())
}

func TestHitBustsPlayer(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),  // player
		card(deck.Hearts, deck.Two),   // dealer
		card(deck.Clubs, deck.Queen),  // player, 20
		card(deck.Diamonds, deck.Two), // dealer
		card(deck.Hearts, deck.Five),  // hit card: bust at 25
	)

	g.Deal()
	state := g.Hit()

	require.True(t, state.Over)
	assert.Equal(t, DealerWins, g.Outcome())
	assert.Contains(t, state.Status, "busts")
	assert.Equal(t, 25, state.Player.Value)
	// The dealer never plays after a player bust.
	assert.Len(t, state.Dealer.Cards, 2)
}

func TestHitKeepsRoundLiveBelow21(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.Two),   // player
		card(deck.Hearts, deck.Ten),   // dealer
		card(deck.Clubs, deck.Three),  // player, 5
		card(deck.Diamonds, deck.Ten), // dealer
		card(deck.Hearts, deck.Seven), // hit: 12
	)

	g.Deal()
	state := g.Hit()

	require.False(t, state.Over)
	assert.Equal(t, PlayerTurn, g.Phase())
	assert.Equal(t, 12, state.Player.Value)
}

func TestHitOnEmptyDeckEndsRoundWithoutOutcome(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.Two),
		card(deck.Hearts, deck.Ten),
		card(deck.Clubs, deck.Three),
		card(deck.Diamonds, deck.Ten),
		// Nothing left to hit with.
	)

	g.Deal()
	state := g.Hit()

	require.True(t, state.Over)
	assert.Equal(t, OutcomeNone, g.Outcome())
	assert.Contains(t, state.Status, "deck is empty")
}

func TestHitAfterRoundOverIsNoOp(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),
		card(deck.Hearts, deck.Two),
		card(deck.Clubs, deck.Queen),
		card(deck.Diamonds, deck.Two),
		card(deck.Hearts, deck.Five), // bust
	)

	g.Deal()
	g.Hit()
	require.True(t, g.Over())

	before := g.PlayerView()
	state := g.Hit()
	assert.Contains(t, state.Status, "already over")
	assert.Equal(t, before.Cards, state.Player.Cards, "no card may be drawn after the round ends")
	assert.Equal(t, DealerWins, g.Outcome())
}

func TestStandDealerDrawsTo17AndBusts(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),  // player
		card(deck.Hearts, deck.Queen), // dealer
		card(deck.Clubs, deck.Seven),  // player, 17
		card(deck.Diamonds, deck.Six), // dealer, 16: must draw
		card(deck.Spades, deck.Jack),  // dealer draw: 26, bust
	)

	g.Deal()
	state := g.Stand()

	require.True(t, state.Over)
	assert.Equal(t, PlayerWins, g.Outcome())
	assert.Contains(t, state.Status, "dealer busts")
	assert.Equal(t, 26, state.Dealer.Value)
	assert.Len(t, state.Dealer.Cards, 3)
}

func TestStandDealerStandsOn17(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),    // player
		card(deck.Hearts, deck.Queen),   // dealer
		card(deck.Clubs, deck.Nine),     // player, 19
		card(deck.Diamonds, deck.Seven), // dealer, 17: stands
		card(deck.Spades, deck.Five),    // must never be drawn
	)

	g.Deal()
	state := g.Stand()

	require.True(t, state.Over)
	assert.Equal(t, PlayerWins, g.Outcome())
	assert.Len(t, state.Dealer.Cards, 2, "dealer stands at 17 without drawing")
}

func TestStandHigherDealerTotalWins(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),   // player
		card(deck.Hearts, deck.Queen),  // dealer
		card(deck.Clubs, deck.Seven),   // player, 17
		card(deck.Diamonds, deck.Nine), // dealer, 19
	)

	g.Deal()
	state := g.Stand()

	require.True(t, state.Over)
	assert.Equal(t, DealerWins, g.Outcome())
}

func TestStandEqualTotalsPush(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),    // player
		card(deck.Hearts, deck.Queen),   // dealer
		card(deck.Clubs, deck.Eight),    // player, 18
		card(deck.Diamonds, deck.Eight), // dealer, 18
	)

	g.Deal()
	state := g.Stand()

	require.True(t, state.Over)
	assert.Equal(t, Push, g.Outcome())
}

func TestStandExhaustedDeckStopsDealerDraw(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),    // player
		card(deck.Hearts, deck.Two),     // dealer
		card(deck.Clubs, deck.Eight),    // player, 18
		card(deck.Diamonds, deck.Three), // dealer, 5, wants to draw
	)

	g.Deal()
	state := g.Stand()

	// The dealer stops at 5 with nothing to draw and loses on totals.
	require.True(t, state.Over)
	assert.Equal(t, PlayerWins, g.Outcome())
	assert.Equal(t, 5, state.Dealer.Value)
}

func TestStandIsIdempotent(t *testing.T) {
	g := stackedGame(t, 10,
		card(deck.Spades, deck.King),
		card(deck.Hearts, deck.Queen),
		card(deck.Clubs, deck.Seven),
		card(deck.Diamonds, deck.Nine),
	)

	g.Deal()
	first := g.Stand()
	second := g.Stand()

	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Dealer.Cards, second.Dealer.Cards, "a second stand must not redraw the dealer hand")
	assert.Equal(t, first.Player, second.Player)
}

func TestWagerIsCarriedOpaquely(t *testing.T) {
	g := NewGame(-5)
	assert.Equal(t, int64(-5), g.Wager(), "the engine does not validate wagers")
}

func TestFullRandomRoundTerminates(t *testing.T) {
	// Whatever the shuffle, hitting forever must terminate through bust
	// or deck exhaustion without a panic.
	g := NewGame(1)
	state := g.Deal()
	for !state.Over {
		state = g.Hit()
	}
	switch g.Outcome() {
	case DealerWins, PlayerBlackjack, Push:
		// Bust, or a natural ended the round at the deal.
	case OutcomeNone:
		assert.Contains(t, state.Status, "deck is empty")
	default:
		t.Fatalf("unexpected outcome %s from hitting until terminal", g.Outcome())
	}
}
