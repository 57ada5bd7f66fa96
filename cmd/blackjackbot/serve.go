package main

import (
	"errors"
	"net/http"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/jackehuynh/blackjack-bot/cmd/blackjackbot/shared"
	"github.com/jackehuynh/blackjack-bot/internal/config"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/server"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// ServeCmd runs the websocket table server.
type ServeCmd struct {
	Config  string `kong:"default='blackjack.hcl',help='Path to the HCL config file'"`
	Addr    string `kong:"help='Listen address (overrides config)'"`
	DBPath  string `kong:"name='db',help='SQLite database path (overrides config)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
	LogJSON bool   `kong:"name='log-json',help='Emit structured JSON logs'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.LogJSON)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.DBPath != "" {
		cfg.Economy.DBPath = c.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := economy.Open(cfg.Economy.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := session.NewRegistry(logger)
	service := table.NewService(registry, store, logger, cfg.Economy.MinWager)

	serverLevel := charmlog.InfoLevel
	if c.Debug {
		serverLevel = charmlog.DebugLevel
	}
	srv := server.NewServer(service, charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           serverLevel,
	}))

	logger.Info().
		Str("address", cfg.Server.Addr).
		Str("db_path", cfg.Economy.DBPath).
		Int64("min_wager", cfg.Economy.MinWager).
		Msg("Starting blackjack table server")

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down server...")
		return srv.Stop()
	})

	return group.Wait()
}
