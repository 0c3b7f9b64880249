package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/pomo/internal/formatter"
	"github.com/desertthunder/pomo/internal/session"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsShow prints the persisted durations.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	work, brk := session.LoadDurations(store, r.logger)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]int{session.WorkTimeKey: work, session.BreakTimeKey: brk}, true)
	}
	return r.writePlain("%s", formatter.SettingsToText(session.Snapshot{Work: work, Break: brk}, storeLabel(store, r.config.Storage)))
}

// SettingsSet validates and persists new durations through the session timer.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	if !cmd.IsSet("work") && !cmd.IsSet("break") {
		return fmt.Errorf("%w: --work or --break is required", shared.ErrMissingArgument)
	}

	if err := r.useConfig(cmd); err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	timer := session.New(session.Config{Store: store, Logger: r.logger, Clock: r.clock})
	defer timer.Close()

	if cmd.IsSet("work") {
		if err := timer.SetWorkDuration(cmd.Int("work")); err != nil {
			return err
		}
	}
	if cmd.IsSet("break") {
		if err := timer.SetBreakDuration(cmd.Int("break")); err != nil {
			return err
		}
	}

	r.logger.Info("settings saved", "work", timer.Snapshot().Work, "break", timer.Snapshot().Break)
	r.writePlain("✓ Settings saved\n")
	return r.writePlain("%s", formatter.SettingsToText(timer.Snapshot(), storeLabel(store, r.config.Storage)))
}
