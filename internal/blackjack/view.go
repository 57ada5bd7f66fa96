package blackjack

// HandView is the presentation shape of a hand: display strings in deal
// order plus the relevant total. For a concealed dealer hand, Cards
// holds only the up card, Value is that card's standalone value, and
// Hidden marks that a hole card exists but is not shown.
type HandView struct {
	Cards  []string `json:"cards"`
	Value  int      `json:"value"`
	Hidden bool     `json:"hidden,omitempty"`
}

// RoundState is the view of a round returned by every engine operation
// and consumed by all frontends (Discord embeds, websocket payloads,
// the terminal UI).
type RoundState struct {
	Status  string   `json:"status"`
	Player  HandView `json:"player"`
	Dealer  HandView `json:"dealer"`
	Over    bool     `json:"over"`
	Outcome string   `json:"outcome,omitempty"`
}

// PlayerView returns the full view of the player's hand
func (g *Game) PlayerView() HandView {
	return HandView{
		Cards: g.player.Strings(),
		Value: g.player.Value(),
	}
}

// DealerView returns the dealer's hand. Visibility is a function of
// round phase, so the caller passes it in: with revealAll false only
// the up card and its own value are shown, which is how a live round
// reports the dealer. Finished rounds are always reported in full.
func (g *Game) DealerView(revealAll bool) HandView {
	cards := g.dealer.Cards()
	if len(cards) == 0 {
		return HandView{Cards: []string{}}
	}

	if revealAll || g.phase == RoundOver {
		return HandView{
			Cards: g.dealer.Strings(),
			Value: g.dealer.Value(),
		}
	}

	return HandView{
		Cards:  []string{cards[0].String()},
		Value:  cards[0].BlackjackValue(),
		Hidden: true,
	}
}

// Snapshot returns the round's current state with dealer visibility
// derived from the phase.
func (g *Game) Snapshot() RoundState {
	state := RoundState{
		Status: g.status,
		Player: g.PlayerView(),
		Dealer: g.DealerView(g.phase == RoundOver),
		Over:   g.phase == RoundOver,
	}
	if g.outcome != OutcomeNone {
		state.Outcome = g.outcome.String()
	}
	return state
}
