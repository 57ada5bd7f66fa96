package economy

import "github.com/jackehuynh/blackjack-bot/internal/blackjack"

// Payout returns the amount to credit back to a player whose wager was
// deducted when the round began:
//
//   - PlayerWins: 2x the wager (stake back plus even-money winnings)
//   - PlayerBlackjack: stake back plus 3:2 winnings, truncated on odd
//     wagers (a 5 wager pays 5 + 7)
//   - Push: the stake back
//   - DealerWins or an undecided round: nothing
//
// Rounds that never properly started (short deck at deal time) carry no
// outcome; Refundable tells callers to return the stake for those.
func Payout(outcome blackjack.Outcome, wager int64) int64 {
	switch outcome {
	case blackjack.PlayerWins:
		return wager * 2
	case blackjack.PlayerBlackjack:
		return wager + wager*3/2
	case blackjack.Push:
		return wager
	default:
		return 0
	}
}

// Refundable reports whether a terminal round with the given outcome
// ended without being decided, meaning the stake should be returned:
// a deal that could not start or a deck that ran out mid-round.
func Refundable(outcome blackjack.Outcome) bool {
	return outcome == blackjack.OutcomeNone
}
