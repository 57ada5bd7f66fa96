package blackjack

// Outcome is the terminal result of a round. The zero value OutcomeNone
// means the round has not been decided (still live, or ended abnormally
// with no winner, e.g. the deck ran out).
type Outcome int

const (
	OutcomeNone Outcome = iota
	PlayerWins
	DealerWins
	Push
	PlayerBlackjack
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case PlayerWins:
		return "player_wins"
	case DealerWins:
		return "dealer_wins"
	case Push:
		return "push"
	case PlayerBlackjack:
		return "player_blackjack"
	default:
		return "none"
	}
}

// Phase is the round's position in the deal/hit/stand protocol. Rounds
// only move forward; there is no path back to an earlier phase.
type Phase int

const (
	AwaitingDeal Phase = iota
	PlayerTurn
	DealerTurn
	RoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case AwaitingDeal:
		return "awaiting_deal"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case RoundOver:
		return "round_over"
	default:
		return "?"
	}
}
