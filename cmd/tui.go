package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/desertthunder/pomo/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the two-pane terminal UI with the session timer and the task list.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	playback := r.timerPlayback()
	lister, _ := playback.(services.DeviceLister)

	timer, closeStore := r.newTimer(playback)
	defer closeStore()
	defer timer.Close()

	model := ui.NewModel(ctx, ui.Options{Timer: timer, Playback: playback.Name(), Devices: lister})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
