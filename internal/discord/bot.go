// Package discord is the chat frontend: prefix commands for the daily
// reward, balances, the leaderboard, and playing wagered blackjack
// rounds, with rounds rendered as embeds.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// Bot wraps a discordgo session and dispatches prefix commands.
type Bot struct {
	session *discordgo.Session
	router  *Router
	prefix  string
	logger  zerolog.Logger
}

// New creates the bot. The session is not opened until Start.
func New(token, prefix string, service *table.Service, daily *economy.DailyService, store *economy.Store, logger zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		router:  NewRouter(service, daily, store, logger),
		prefix:  prefix,
		logger:  logger.With().Str("component", "discord").Logger(),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)
	return b, nil
}

// Start opens the gateway connection and blocks until it is up.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info().Str("user", r.User.Username).Msg("connected to discord")
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if len(m.Content) <= len(b.prefix) || m.Content[:len(b.prefix)] != b.prefix {
		return
	}

	cmd := Command{
		PlayerID:    m.Author.ID,
		DisplayName: m.Author.Username,
		IsAdmin:     b.isAdmin(s, m),
		Line:        m.Content[len(b.prefix):],
	}
	if m.Member != nil && m.Member.Nick != "" {
		cmd.DisplayName = m.Member.Nick
	}

	reply := b.router.Dispatch(cmd)
	if reply.Empty() {
		return
	}

	msg := &discordgo.MessageSend{Content: reply.Content}
	if reply.Embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{reply.Embed}
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		b.logger.Error().Err(err).Str("channel", m.ChannelID).Msg("failed to send reply")
	}
}

func (b *Bot) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}
