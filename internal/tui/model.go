// Package tui is the local play mode: a bubbletea program that runs
// wagered rounds against the same table service and ledger the bot
// frontends use.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

type phase int

const (
	phaseBetting phase = iota
	phasePlaying
	phaseRoundOver
)

// Model is the bubbletea model for local play.
type Model struct {
	service  *table.Service
	playerID string
	input    textinput.Model
	phase    phase
	round    table.Round
	errLine  string
	balance  int64
}

// NewModel creates the play-mode model for the given player identity.
func NewModel(service *table.Service, playerID string) Model {
	input := textinput.New()
	input.Placeholder = "wager"
	input.CharLimit = 10
	input.Width = 12
	input.Focus()

	balance, _ := service.Balance(playerID)

	return Model{
		service:  service,
		playerID: playerID,
		input:    input,
		phase:    phaseBetting,
		balance:  balance,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		if m.phase != phaseBetting || keyMsg.String() == "ctrl+c" {
			if m.phase == phasePlaying {
				// Standing on quit keeps the ledger consistent.
				_, _ = m.service.Stand(m.playerID)
			}
			return m, tea.Quit
		}
	}

	switch m.phase {
	case phaseBetting:
		return m.updateBetting(keyMsg)
	case phasePlaying:
		return m.updatePlaying(keyMsg)
	default:
		return m.updateRoundOver(keyMsg)
	}
}

func (m Model) updateBetting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		wager, err := strconv.ParseInt(strings.TrimSpace(m.input.Value()), 10, 64)
		if err != nil || wager <= 0 {
			m.errLine = "enter a positive wager"
			return m, nil
		}

		round, err := m.service.Start(m.playerID, wager)
		if err != nil {
			m.errLine = err.Error()
			return m, nil
		}

		m.errLine = ""
		m.round = round
		m.balance = round.Balance
		m.input.Reset()
		if round.State.Over {
			m.phase = phaseRoundOver
		} else {
			m.phase = phasePlaying
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var round table.Round
	var err error

	switch msg.String() {
	case "h":
		round, err = m.service.Hit(m.playerID)
	case "s":
		round, err = m.service.Stand(m.playerID)
	default:
		return m, nil
	}

	if err != nil {
		m.errLine = err.Error()
		return m, nil
	}

	m.round = round
	m.balance = round.Balance
	if round.State.Over {
		m.phase = phaseRoundOver
	}
	return m, nil
}

func (m Model) updateRoundOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n":
		m.phase = phaseBetting
		m.errLine = ""
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Blackjack"))
	b.WriteString(fmt.Sprintf("  balance: %d chips\n\n", m.balance))

	switch m.phase {
	case phaseBetting:
		b.WriteString(labelStyle.Render("Place your wager"))
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter to deal, ctrl+c to quit"))
	default:
		m.renderRound(&b)
	}

	if m.errLine != "" {
		b.WriteString("\n" + errorStyle.Render(m.errLine))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRound(b *strings.Builder) {
	state := m.round.State

	b.WriteString(labelStyle.Render("Your hand: "))
	b.WriteString(renderHand(state.Player))
	b.WriteString("\n")

	if state.Dealer.Hidden {
		b.WriteString(labelStyle.Render("Dealer shows: "))
	} else {
		b.WriteString(labelStyle.Render("Dealer hand: "))
	}
	b.WriteString(renderHand(state.Dealer))
	b.WriteString("\n\n")

	if m.phase == phasePlaying {
		b.WriteString(helpStyle.Render("h to hit, s to stand, ctrl+c to quit"))
		return
	}

	b.WriteString(resultStyle(state.Outcome).Render(state.Status))
	if m.round.Payout > 0 {
		b.WriteString(fmt.Sprintf(" (+%d chips)", m.round.Payout))
	}
	b.WriteString("\n" + helpStyle.Render("enter for a new round, q to quit"))
}

func renderHand(view blackjack.HandView) string {
	if len(view.Cards) == 0 {
		return hiddenCardStyle.Render("—")
	}

	parts := make([]string, 0, len(view.Cards)+1)
	for _, card := range view.Cards {
		parts = append(parts, styleCard(card))
	}
	if view.Hidden {
		parts = append(parts, hiddenCardStyle.Render("🂠"))
	}
	return strings.Join(parts, " ") + fmt.Sprintf("  (%d)", view.Value)
}

func resultStyle(outcome string) lipgloss.Style {
	switch outcome {
	case blackjack.PlayerWins.String(), blackjack.PlayerBlackjack.String():
		return winStyle
	case blackjack.DealerWins.String():
		return loseStyle
	default:
		return pushStyle
	}
}
