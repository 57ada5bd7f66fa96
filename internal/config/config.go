// Package config loads the bot's HCL configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete configuration for every frontend.
type Config struct {
	LogLevel string           `hcl:"log_level,optional"`
	Bot      *BotSettings     `hcl:"bot,block"`
	Server   *ServerSettings  `hcl:"server,block"`
	Economy  *EconomySettings `hcl:"economy,block"`
}

// BotSettings configures the Discord frontend. The token may be left
// empty here and supplied through the DISCORD_BOT_TOKEN environment
// variable instead.
type BotSettings struct {
	Token  string `hcl:"token,optional"`
	Prefix string `hcl:"prefix,optional"`
}

// ServerSettings configures the websocket table server.
type ServerSettings struct {
	Addr string `hcl:"addr,optional"`
}

// EconomySettings configures the ledger and reward policy.
type EconomySettings struct {
	DBPath               string `hcl:"db_path,optional"`
	DailyReward          int64  `hcl:"daily_reward,optional"`
	DailyCooldownMinutes int    `hcl:"daily_cooldown_minutes,optional"`
	MinWager             int64  `hcl:"min_wager,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Bot: &BotSettings{
			Prefix: "!",
		},
		Server: &ServerSettings{
			Addr: ":8080",
		},
		Economy: &EconomySettings{
			DBPath:               "blackjack.db",
			DailyReward:          200,
			DailyCooldownMinutes: 120,
			MinWager:             1,
		},
	}
}

// Load reads the HCL file at path. A missing file yields the defaults;
// a present file is decoded and then backfilled with defaults for any
// omitted value.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Bot == nil {
		cfg.Bot = defaults.Bot
	} else if cfg.Bot.Prefix == "" {
		cfg.Bot.Prefix = defaults.Bot.Prefix
	}
	if cfg.Server == nil {
		cfg.Server = defaults.Server
	} else if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Economy == nil {
		cfg.Economy = defaults.Economy
	} else {
		if cfg.Economy.DBPath == "" {
			cfg.Economy.DBPath = defaults.Economy.DBPath
		}
		if cfg.Economy.DailyReward == 0 {
			cfg.Economy.DailyReward = defaults.Economy.DailyReward
		}
		if cfg.Economy.DailyCooldownMinutes == 0 {
			cfg.Economy.DailyCooldownMinutes = defaults.Economy.DailyCooldownMinutes
		}
		if cfg.Economy.MinWager == 0 {
			cfg.Economy.MinWager = defaults.Economy.MinWager
		}
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Economy.DailyReward < 0 {
		return fmt.Errorf("economy: daily_reward must not be negative")
	}
	if c.Economy.DailyCooldownMinutes < 0 {
		return fmt.Errorf("economy: daily_cooldown_minutes must not be negative")
	}
	if c.Economy.MinWager < 1 {
		return fmt.Errorf("economy: min_wager must be at least 1")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr must not be empty")
	}
	return nil
}
