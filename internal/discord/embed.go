package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

const (
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
	colorGold  = 0xf1c40f
	colorGrey  = 0x95a5a6
	colorBlue  = 0x3498db
)

// roundEmbed renders one round state as an embed. Live rounds show the
// dealer's up card only and prompt for the next action; terminal rounds
// show both hands in full plus the settlement line.
func roundEmbed(displayName string, round table.Round) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Blackjack (wager %d)", round.Wager),
		Color: colorBlue,
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("%s's hand", displayName),
		Value: handLine(round.State.Player),
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  dealerFieldName(round.State.Dealer),
		Value: handLine(round.State.Dealer),
	})

	if !round.State.Over {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Your turn",
			Value: "`hit` or `stand`",
		})
		return embed
	}

	embed.Color = outcomeColor(round.State.Outcome)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Result",
		Value: resultLine(round),
	})
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Balance: %d chips", round.Balance),
	}
	return embed
}

func handLine(view blackjack.HandView) string {
	if len(view.Cards) == 0 {
		return "no cards"
	}

	cards := strings.Join(view.Cards, "  ")
	if view.Hidden {
		return fmt.Sprintf("%s  🂠 (showing %d)", cards, view.Value)
	}
	return fmt.Sprintf("%s (value %d)", cards, view.Value)
}

func dealerFieldName(view blackjack.HandView) string {
	if view.Hidden {
		return "Dealer shows"
	}
	return "Dealer's hand"
}

func resultLine(round table.Round) string {
	status := round.State.Status

	switch round.State.Outcome {
	case blackjack.PlayerWins.String(), blackjack.PlayerBlackjack.String():
		return fmt.Sprintf("%s. You collect %d chips.", status, round.Payout)
	case blackjack.Push.String():
		return fmt.Sprintf("%s. Your wager of %d is returned.", status, round.Payout)
	case blackjack.DealerWins.String():
		return fmt.Sprintf("%s. You lose your %d chip wager.", status, round.Wager)
	default:
		// No outcome: the round could not start or the deck ran out.
		if round.Payout > 0 {
			return fmt.Sprintf("%s. Your wager of %d is returned.", status, round.Payout)
		}
		return status
	}
}

func outcomeColor(outcome string) int {
	switch outcome {
	case blackjack.PlayerBlackjack.String():
		return colorGold
	case blackjack.PlayerWins.String():
		return colorGreen
	case blackjack.DealerWins.String():
		return colorRed
	default:
		return colorGrey
	}
}
