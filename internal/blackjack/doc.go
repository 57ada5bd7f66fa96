// Package blackjack implements the rules engine for a single round of
// player-vs-dealer blackjack.
//
// The main type is Game, which owns one shuffled deck and two hands and
// drives the deal/hit/stand protocol to a terminal outcome:
//
//	g := blackjack.NewGame(100)
//	state := g.Deal()
//	for !state.Over {
//	    state = g.Hit() // or g.Stand()
//	}
//	switch g.Outcome() {
//	case blackjack.PlayerWins:
//	    ...
//	}
//
// Expected conditions (an exhausted deck, a bust, calling Hit or Stand
// on a finished round) are reported through RoundState and never raise
// errors. Wager validation, balance settlement, and the one-round-per-
// player rule belong to the calling layer.
//
// # Deterministic testing
//
// NewGameWithDeck accepts a pre-built deck, and deck.NewStacked builds
// one that deals a known sequence:
//
//	d := deck.NewStacked(
//	    deck.NewCard(deck.Spades, deck.Ace),  // player
//	    deck.NewCard(deck.Clubs, deck.Five),  // dealer
//	    deck.NewCard(deck.Hearts, deck.King), // player
//	    deck.NewCard(deck.Diamonds, deck.Queen),
//	)
//	g := blackjack.NewGameWithDeck(100, d)
package blackjack
