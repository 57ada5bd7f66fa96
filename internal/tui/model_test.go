package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/deck"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

func newTestModel(t *testing.T, cards ...deck.Card) Model {
	t.Helper()

	store, err := economy.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.Adjust("local", 100)
	require.NoError(t, err)

	opts := []table.Option{}
	if len(cards) > 0 {
		opts = append(opts, table.WithGameFactory(func(wager int64) *blackjack.Game {
			return blackjack.NewGameWithDeck(wager, deck.NewStacked(cards...))
		}))
	}
	service := table.NewService(session.NewRegistry(zerolog.Nop()), store, zerolog.Nop(), 1, opts...)

	return NewModel(service, "local")
}

func press(m Model, key string) Model {
	var msg tea.Msg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestInitialViewPromptsForWager(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Place your wager")
	assert.Contains(t, view, "balance: 100")
}

func TestInvalidWagerShowsError(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("nope")
	m = press(m, "enter")
	assert.Contains(t, m.View(), "positive wager")
}

func TestPlayThroughARound(t *testing.T) {
	m := newTestModel(t,
		deck.NewCard(deck.Spades, deck.King),    // player
		deck.NewCard(deck.Hearts, deck.Queen),   // dealer
		deck.NewCard(deck.Clubs, deck.Nine),     // player 19
		deck.NewCard(deck.Diamonds, deck.Seven), // dealer 17
	)

	m.input.SetValue("40")
	m = press(m, "enter")
	require.Equal(t, phasePlaying, m.phase)
	assert.Contains(t, m.View(), "Dealer shows")

	m = press(m, "s")
	require.Equal(t, phaseRoundOver, m.phase)
	view := m.View()
	assert.Contains(t, view, "player wins")
	assert.Contains(t, view, "+80 chips")
	assert.Contains(t, view, "balance: 140")

	// Enter returns to the betting prompt.
	m = press(m, "enter")
	assert.Equal(t, phaseBetting, m.phase)
}

func TestNaturalEndsRoundImmediately(t *testing.T) {
	m := newTestModel(t,
		deck.NewCard(deck.Spades, deck.Ace),
		deck.NewCard(deck.Clubs, deck.Five),
		deck.NewCard(deck.Hearts, deck.King),
		deck.NewCard(deck.Diamonds, deck.Queen),
	)

	m.input.SetValue("100")
	m = press(m, "enter")
	assert.Equal(t, phaseRoundOver, m.phase)
	assert.Contains(t, m.View(), "blackjack")
}
