package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	mu          sync.Mutex
	config      *shared.Config
	configPath  string
	playback    services.Playback
	clock       clockwork.Clock
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Playback overrides the collaborator built from the Spotify credentials.
	Playback    services.Playback
	Clock       clockwork.Clock
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		playback:    opts.Playback,
		clock:       opts.Clock,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, settingsCommand, timerCommand, spotifyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// useConfig switches to the configuration file passed with --config when it differs from the one
// loaded at startup, then applies the log level. An explicitly named file must load.
func (r *Runner) useConfig(cmd *cli.Command) error {
	if path := cmd.String("config"); cmd.IsSet("config") && path != r.configPath {
		if err := r.loadConfig(path); err != nil {
			return err
		}
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return nil
}

// loadConfig replaces the runner's configuration with the file at path.
func (r *Runner) loadConfig(path string) error {
	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
	r.configPath = path
	return nil
}

// spotify builds the playback collaborator from the configured credentials. Errors are returned
// as-is so commands that talk to Spotify directly can report them.
func (r *Runner) spotify() (services.Playback, error) {
	if r.playback != nil {
		return r.playback, nil
	}

	r.mu.Lock()
	cfg := r.config.Credentials.Spotify
	r.mu.Unlock()

	return services.NewPlayback(cfg,
		services.WithHTTPClient(r.httpClient),
		services.WithTokenRefresh(r.onTokenRefresh),
	)
}

// timerPlayback is [Runner.spotify] for the timer, which runs without playback rather than fail.
func (r *Runner) timerPlayback() services.Playback {
	playback, err := r.spotify()
	if err != nil {
		r.logger.Warn("playback disabled", "err", err)
		return services.NoopPlayback{}
	}
	r.logger.Debug("playback enabled", "playback", playback.Name())
	return playback
}

func (r *Runner) onTokenRefresh(token *oauth2.Token) {
	if err := r.saveTokens(token); err != nil {
		r.logger.Warn("failed to persist refreshed token", "err", err)
		return
	}
	r.logger.Debug("refreshed spotify token saved", "path", r.configPath)
}

// saveTokens stores token in the Spotify credentials and writes the config file when one is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrInvalidConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
