// Package app wires configuration, logging, high-score storage and the
// optional relay connection into the terminal UI.
package app

import (
	"fmt"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hersh/gotris-pro/internal/config"
	"github.com/hersh/gotris-pro/internal/highscore"
	"github.com/hersh/gotris-pro/internal/logging"
	"github.com/hersh/gotris-pro/internal/netclient"
	"github.com/hersh/gotris-pro/internal/tui"
	"go.uber.org/zap"
)

// Options are the command-line overrides. Zero values keep the config file
// (or default) setting.
type Options struct {
	ConfigPath string
	Name       string
	Width      int
	Difficulty string
	Seed       int64
	Server     string
	// RequireRelay makes a failed relay connection fatal instead of
	// falling back to offline play.
	RequireRelay bool
}

// ResolveConfig loads the config file and applies the overrides on top.
func ResolveConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if opts.Name != "" {
		cfg.Player = opts.Name
	} else if cfg.Player == "" || cfg.Player == config.Default().Player {
		if u, err := user.Current(); err == nil && u.Username != "" {
			cfg.Player = u.Username
		}
	}
	if opts.Width != 0 {
		cfg.BoardWidth = opts.Width
	}
	if opts.Difficulty != "" {
		cfg.Difficulty = opts.Difficulty
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	if opts.Server != "" {
		cfg.Server.URL = opts.Server
	}
	if opts.RequireRelay && cfg.Server.URL == "" {
		return cfg, fmt.Errorf("no relay address configured")
	}
	return cfg, cfg.Validate()
}

// Run starts the TUI and blocks until the player quits.
func Run(opts Options) error {
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var keeper tui.ScoreKeeper
	store, err := highscore.Open(cfg.HighScore)
	if err != nil {
		logger.Warn("high score storage unavailable", zap.Error(err))
	} else {
		k := highscore.NewKeeper(store, logger)
		defer k.Close()
		keeper = k
	}

	var relay tui.Relay
	var client *netclient.Client
	if cfg.Server.URL != "" {
		client, err = netclient.New(cfg.Server.URL, logger)
		if err != nil {
			if opts.RequireRelay {
				return fmt.Errorf("connect to relay at %s: %w", cfg.Server.URL, err)
			}
			logger.Warn("relay unreachable, playing offline", zap.String("url", cfg.Server.URL), zap.Error(err))
		} else {
			defer client.Close()
			relay = client
		}
	}

	p := tea.NewProgram(
		tui.NewModel(cfg, keeper, relay, logger),
		tea.WithAltScreen(),
	)

	// Wire the program into the client so readPump can send tea.Msgs
	if client != nil {
		client.SetProgram(p)
		client.Start()
	}

	_, err = p.Run()
	return err
}
