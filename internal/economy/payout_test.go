package economy

import (
	"testing"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
)

func TestPayout(t *testing.T) {
	tests := []struct {
		name     string
		outcome  blackjack.Outcome
		wager    int64
		expected int64
	}{
		{name: "win pays double", outcome: blackjack.PlayerWins, wager: 100, expected: 200},
		{name: "blackjack pays five halves", outcome: blackjack.PlayerBlackjack, wager: 100, expected: 250},
		{name: "blackjack truncates odd wagers", outcome: blackjack.PlayerBlackjack, wager: 5, expected: 12},
		{name: "push refunds the stake", outcome: blackjack.Push, wager: 100, expected: 100},
		{name: "loss pays nothing", outcome: blackjack.DealerWins, wager: 100, expected: 0},
		{name: "undecided pays nothing here", outcome: blackjack.OutcomeNone, wager: 100, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Payout(tt.outcome, tt.wager); got != tt.expected {
				t.Errorf("Payout(%s, %d) = %d, want %d", tt.outcome, tt.wager, got, tt.expected)
			}
		})
	}
}

func TestRefundable(t *testing.T) {
	if !Refundable(blackjack.OutcomeNone) {
		t.Error("rounds with no outcome are refund cases")
	}
	if Refundable(blackjack.DealerWins) {
		t.Error("a decided loss is not refundable")
	}
}
