package main

import (
	"context"

	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/session"
	"github.com/urfave/cli/v3"
)

// Timer runs the countdown headless, printing the clock every tick and ringing the terminal bell
// on each phase change. It returns on interrupt or after --cycles phase changes.
func (r *Runner) Timer(ctx context.Context, cmd *cli.Command) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	timer, closeStore := r.newTimer(r.timerPlayback())
	defer closeStore()
	defer timer.Close()

	cycles := cmd.Int("cycles")
	events := timer.Subscribe(64)

	snap := timer.Snapshot()
	r.writePlain("%s  %s", snap.Phase.Title(), snap.Clock())
	timer.Start()

	changes := 0
	for {
		select {
		case <-ctx.Done():
			r.writePlain("\n")
			r.logger.Debug("timer interrupted", "phase_changes", changes)
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}

			switch event.Type {
			case session.EventTick:
				r.writePlain("\r%s  %s", event.Snapshot.Phase.Title(), event.Snapshot.Clock())
			case session.EventPhaseChange:
				changes++
				r.writePlain("\a\n%s\n", event.Message)
				if cycles > 0 && changes >= cycles {
					return nil
				}
				r.writePlain("%s  %s", event.Snapshot.Phase.Title(), event.Snapshot.Clock())
			}
		}
	}
}

// newTimer builds a session timer over the configured store. A store that cannot be opened is
// logged and the timer runs on default durations.
func (r *Runner) newTimer(playback services.Playback) (*session.Timer, func()) {
	cfg := session.Config{
		Playback:        playback,
		Logger:          r.logger,
		Clock:           r.clock,
		TickInterval:    r.config.Timer.TickInterval.Duration,
		PlaybackTimeout: r.config.Timer.PlaybackTimeout.Duration,
	}

	store, err := r.openStore()
	if err != nil {
		r.logger.Warn("settings unavailable, using defaults", "err", err)
		return session.New(cfg), func() {}
	}

	cfg.Store = store
	return session.New(cfg), func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close settings store", "err", err)
		}
	}
}
