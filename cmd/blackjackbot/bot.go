package main

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/jackehuynh/blackjack-bot/cmd/blackjackbot/shared"
	"github.com/jackehuynh/blackjack-bot/internal/config"
	"github.com/jackehuynh/blackjack-bot/internal/discord"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// BotCmd runs the Discord bot.
type BotCmd struct {
	Config  string `kong:"default='blackjack.hcl',help='Path to the HCL config file'"`
	Token   string `kong:"help='Discord bot token (overrides config and DISCORD_BOT_TOKEN)'"`
	DBPath  string `kong:"name='db',help='SQLite database path (overrides config)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
	LogJSON bool   `kong:"name='log-json',help='Emit structured JSON logs'"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.LogJSON)

	// .env is optional, flags and the environment still apply without it.
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env")
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.DBPath != "" {
		cfg.Economy.DBPath = c.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	token := c.Token
	if token == "" {
		token = cfg.Bot.Token
	}
	if token == "" {
		token = os.Getenv("DISCORD_BOT_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no Discord token: set bot.token in %s, DISCORD_BOT_TOKEN, or --token", c.Config)
	}

	store, err := economy.Open(cfg.Economy.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := session.NewRegistry(logger)
	service := table.NewService(registry, store, logger, cfg.Economy.MinWager)
	daily := economy.NewDailyService(store, quartz.NewReal(), logger,
		cfg.Economy.DailyReward,
		time.Duration(cfg.Economy.DailyCooldownMinutes)*time.Minute)

	bot, err := discord.New(token, cfg.Bot.Prefix, service, daily, store, logger)
	if err != nil {
		return err
	}

	if err := bot.Start(); err != nil {
		return err
	}

	logger.Info().
		Str("prefix", cfg.Bot.Prefix).
		Str("db_path", cfg.Economy.DBPath).
		Msg("Bot is running, press ctrl+c to exit")

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	<-ctx.Done()

	return bot.Stop()
}
