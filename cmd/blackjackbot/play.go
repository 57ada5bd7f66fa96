package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jackehuynh/blackjack-bot/internal/config"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
	"github.com/jackehuynh/blackjack-bot/internal/tui"
)

// PlayCmd plays blackjack locally in the terminal.
type PlayCmd struct {
	Config string `kong:"default='blackjack.hcl',help='Path to the HCL config file'"`
	DBPath string `kong:"name='db',help='SQLite database path (overrides config)'"`
	Player string `kong:"default='local',help='Player ID to play as'"`
	Stake  int64  `kong:"default='0',help='Chips to grant before playing (one-off)'"`
}

func (c *PlayCmd) Run() error {
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

	// The TUI owns the terminal, keep logging out of the way.
	logger := zerolog.Nop()

	store, err := economy.Open(cfg.Economy.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Stake > 0 {
		if _, err := store.Adjust(c.Player, c.Stake); err != nil {
			return err
		}
	}

	registry := session.NewRegistry(logger)
	service := table.NewService(registry, store, logger, cfg.Economy.MinWager)

	program := tea.NewProgram(tui.NewModel(service, c.Player))
	_, err = program.Run()
	return err
}
