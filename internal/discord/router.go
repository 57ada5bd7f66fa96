package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// Command is one parsed chat command, already stripped of the prefix.
type Command struct {
	PlayerID    string
	DisplayName string
	IsAdmin     bool
	Line        string
}

// Reply is what a command sends back: plain content, an embed, or both.
type Reply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

// Empty reports whether there is nothing to send.
func (r Reply) Empty() bool {
	return r.Content == "" && r.Embed == nil
}

func text(format string, args ...interface{}) Reply {
	return Reply{Content: fmt.Sprintf(format, args...)}
}

// Router maps command words to handlers. It is independent of the
// discordgo session so commands can be exercised directly in tests.
type Router struct {
	service *table.Service
	daily   *economy.DailyService
	store   *economy.Store
	logger  zerolog.Logger
}

// NewRouter creates a command router.
func NewRouter(service *table.Service, daily *economy.DailyService, store *economy.Store, logger zerolog.Logger) *Router {
	return &Router{
		service: service,
		daily:   daily,
		store:   store,
		logger:  logger.With().Str("component", "router").Logger(),
	}
}

// Dispatch runs one command and returns the reply. Unknown commands
// reply with nothing so unrelated prefixed chatter stays unanswered.
func (r *Router) Dispatch(cmd Command) Reply {
	fields := strings.Fields(cmd.Line)
	if len(fields) == 0 {
		return Reply{}
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "daily":
		return r.handleDaily(cmd)
	case "balance", "bal":
		return r.handleBalance(cmd)
	case "blackjack", "bj":
		return r.handleBlackjack(cmd, args)
	case "hit":
		return r.handleHit(cmd)
	case "stand", "hold":
		return r.handleStand(cmd)
	case "leaderboard", "top":
		return r.handleLeaderboard()
	case "set":
		return r.handleSet(cmd, args)
	default:
		return Reply{}
	}
}

func (r *Router) handleDaily(cmd Command) Reply {
	result, err := r.daily.Claim(cmd.PlayerID)
	if err != nil {
		r.logger.Error().Err(err).Str("player", cmd.PlayerID).Msg("daily claim failed")
		return text("Something went wrong claiming your daily reward, try again later.")
	}

	if !result.Granted {
		return text("You already claimed your daily reward. Try again in %s.", formatDuration(result.Remaining))
	}
	return text("You claimed your daily %d chips! Your balance is now %d.", result.Reward, result.NewBalance)
}

func (r *Router) handleBalance(cmd Command) Reply {
	balance, err := r.service.Balance(cmd.PlayerID)
	if err != nil {
		r.logger.Error().Err(err).Str("player", cmd.PlayerID).Msg("balance lookup failed")
		return text("Could not look up your balance, try again later.")
	}
	return text("%s, your balance is %d chips.", cmd.DisplayName, balance)
}

func (r *Router) handleBlackjack(cmd Command, args []string) Reply {
	if len(args) != 1 {
		return text("Usage: `blackjack <wager>` (e.g. `blackjack 100`)")
	}

	wager, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || wager <= 0 {
		return text("The wager must be a positive number.")
	}

	round, err := r.service.Start(cmd.PlayerID, wager)
	switch {
	case errors.Is(err, session.ErrRoundInProgress):
		return text("You already have a round going. Finish it with `hit` or `stand`.")
	case errors.Is(err, table.ErrWagerTooSmall):
		return text("That wager is below the table minimum.")
	case errors.Is(err, table.ErrInsufficientBalance):
		return r.brokeReply(cmd)
	case err != nil:
		r.logger.Error().Err(err).Str("player", cmd.PlayerID).Msg("round start failed")
		return text("Could not start the round, try again later.")
	}

	return Reply{Embed: roundEmbed(cmd.DisplayName, round)}
}

func (r *Router) handleHit(cmd Command) Reply {
	round, err := r.service.Hit(cmd.PlayerID)
	if errors.Is(err, session.ErrNoActiveRound) {
		return text("You have no round going. Start one with `blackjack <wager>`.")
	}
	if err != nil {
		r.logger.Error().Err(err).Str("player", cmd.PlayerID).Msg("hit failed")
		return text("Could not play that, try again later.")
	}
	return Reply{Embed: roundEmbed(cmd.DisplayName, round)}
}

func (r *Router) handleStand(cmd Command) Reply {
	round, err := r.service.Stand(cmd.PlayerID)
	if errors.Is(err, session.ErrNoActiveRound) {
		return text("You have no round going. Start one with `blackjack <wager>`.")
	}
	if err != nil {
		r.logger.Error().Err(err).Str("player", cmd.PlayerID).Msg("stand failed")
		return text("Could not play that, try again later.")
	}
	return Reply{Embed: roundEmbed(cmd.DisplayName, round)}
}

func (r *Router) handleLeaderboard() Reply {
	entries, err := r.service.Leaderboard(10)
	if err != nil {
		r.logger.Error().Err(err).Msg("leaderboard failed")
		return text("Could not load the leaderboard, try again later.")
	}
	if len(entries) == 0 {
		return text("Nobody has any chips yet. Claim a `daily` to get started!")
	}

	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. <@%s>: %d chips\n", i+1, e.UserID, e.Balance)
	}
	return Reply{Embed: &discordgo.MessageEmbed{
		Title:       "Chip Leaderboard",
		Description: sb.String(),
		Color:       colorGold,
	}}
}

func (r *Router) handleSet(cmd Command, args []string) Reply {
	if !cmd.IsAdmin {
		return text("You do not have permission to change settings.")
	}
	if len(args) != 2 {
		return text("Usage: `set daily_cooldown <minutes>`")
	}

	switch strings.ToLower(args[0]) {
	case "daily_cooldown":
		minutes, err := strconv.Atoi(args[1])
		if err != nil || minutes <= 0 {
			return text("The cooldown must be a positive number of minutes.")
		}
		if err := r.store.SetSetting(economy.SettingDailyCooldown, strconv.Itoa(minutes)); err != nil {
			r.logger.Error().Err(err).Msg("setting update failed")
			return text("Could not update the setting, try again later.")
		}
		return text("Daily cooldown updated to %d minutes.", minutes)
	default:
		return text("Unknown setting. Supported: `daily_cooldown`.")
	}
}

func (r *Router) brokeReply(cmd Command) Reply {
	balance, err := r.service.Balance(cmd.PlayerID)
	if err != nil {
		return text("You don't have enough chips for that wager.")
	}
	return text("You don't have enough chips for that wager. Your balance is %d.", balance)
}

// formatDuration renders a remaining wait as "1h 5m" style text,
// falling back to seconds under a minute.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
