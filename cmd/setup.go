package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/pomo/internal/formatter"
	"github.com/desertthunder/pomo/internal/repositories"
	"github.com/desertthunder/pomo/internal/session"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing, then opens the settings
// store, which runs migrations for sqlite.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	if err := r.loadConfig(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	work, brk := session.LoadDurations(store, r.logger)

	r.writePlainHeader("pomo setup")
	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Settings store: %s\n\n", storeLabel(store, r.config.Storage))
	r.writePlain("%s", formatter.SettingsToText(session.Snapshot{Work: work, Break: brk}, ""))

	if !r.config.Credentials.Spotify.Configured() {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set client_id and client_secret in %s, or export POMO_SPOTIFY_CLIENT_ID and POMO_SPOTIFY_CLIENT_SECRET\n", configPath)
		r.writePlain("2. Run 'pomo spotify auth' to allow playback control\n")
	}
	return nil
}

// openStore opens the configured settings store.
func (r *Runner) openStore() (repositories.SettingsStore, error) {
	cfg := r.config.Storage
	r.logger.Debug("opening settings store", "driver", cfg.Driver, "path", cfg.Path)

	store, err := repositories.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return store, nil
}

// storeLabel describes where settings live, e.g. "sqlite ./pomo.db".
func storeLabel(store repositories.SettingsStore, cfg shared.StorageConfig) string {
	if fs, ok := store.(*repositories.FileStore); ok {
		return repositories.DriverYAML + " " + fs.Path()
	}
	return repositories.DriverSQLite + " " + cfg.Path
}
