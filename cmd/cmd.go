// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag names the configuration file for commands that read or write it.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// setupCommand writes the configuration file and prepares the settings store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the settings store",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// settingsCommand reads and writes the persisted work and break durations.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the work and break durations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the stored durations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SettingsShow,
			},
			{
				Name:  "set",
				Usage: "Change the durations (whole minutes, at least 1)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:    "work",
						Aliases: []string{"w"},
						Usage:   "Work phase length in minutes",
					},
					&cli.IntFlag{
						Name:    "break",
						Aliases: []string{"b"},
						Usage:   "Break phase length in minutes",
					},
				},
				Action: r.SettingsSet,
			},
		},
	}
}

// timerCommand runs the session timer without the TUI.
func timerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "timer",
		Usage: "Run the session timer in the terminal",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "cycles",
				Aliases: []string{"n"},
				Usage:   "Stop after this many phase changes (0 runs until interrupted)",
			},
		},
		Action: r.Timer,
	}
}

// spotifyCommand handles Spotify authorization and playback control
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify authorization and playback control",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Authorize pomo to control playback on your account",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "redirect-url",
						Usage: "Redirect URL copied from the browser after an implicit grant",
					},
					&cli.BoolFlag{
						Name:  "implicit",
						Usage: "Print the implicit grant URL instead of running the callback server",
					},
				},
				Action: r.SpotifyAuth,
			},
			{
				Name:  "devices",
				Usage: "List available playback devices",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SpotifyDevices,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyPause,
			},
			{
				Name:   "resume",
				Usage:  "Resume playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyResume,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command with the timer and task panes.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive timer and task list",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.TUI,
	}
}
