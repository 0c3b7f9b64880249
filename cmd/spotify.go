package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/pomo/internal/formatter"
	"github.com/desertthunder/pomo/internal/server"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const (
	authTimeout            = 2 * time.Minute
	defaultPlaybackTimeout = 10 * time.Second
)

// SpotifyAuth authorizes playback control for the user's account and saves the token to the config file.
//
// By default it runs the authorization code flow: it starts the local callback server, opens the
// browser, and exchanges the returned code. With --implicit it prints the implicit grant URL, and
// with --redirect-url it reads the token from the URL the browser was sent back to.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	creds := r.config.Credentials.Spotify
	if !creds.Configured() {
		return fmt.Errorf("%w: set client_id and client_secret in %s or the environment", shared.ErrMissingCredentials, r.configPath)
	}

	if cmd.Bool("implicit") {
		r.writePlain("Open this URL, approve access, then run:\n")
		r.writePlain("  pomo spotify auth --redirect-url '<the URL you were sent to>'\n\n")
		r.writePlain("%s\n", services.ImplicitAuthURL(creds.ClientID, creds.RedirectURI, ""))
		return nil
	}

	var token *oauth2.Token
	var err error
	if redirect := cmd.String("redirect-url"); redirect != "" {
		token, err = services.TokenFromRedirect(redirect, "")
	} else {
		token, err = r.doOAuth(ctx, services.NewOAuthConfig(creds.ClientID, creds.ClientSecret, creds.RedirectURI))
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	if !strings.EqualFold(r.config.Credentials.Spotify.AuthMode, shared.AuthModeUser) {
		r.logger.Info("switching auth_mode to user", "was", r.config.Credentials.Spotify.AuthMode)
		r.config.Credentials.Spotify.AuthMode = shared.AuthModeUser
	}
	r.mu.Unlock()

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: pomo spotify devices\n")
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	handler := server.NewOAuthHandler(exchangeCtx, oauthCfg, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	serveCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	ready := make(chan string, 1)
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Serve(serveCtx, server.Addr(r.config.Server), router, r.logger, ready)
	}()

	select {
	case addr := <-ready:
		r.logger.Infof("OAuth callback server listening at %v", addr)
	case err := <-serverErrors:
		return nil, err
	}

	authURL := oauthCfg.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			err = errors.New("callback server stopped")
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	stopServer()
	if err := <-serverErrors; err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

// SpotifyDevices lists the user's playback devices and marks the one playback would target.
func (r *Runner) SpotifyDevices(ctx context.Context, cmd *cli.Command) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	playback, err := r.spotify()
	if err != nil {
		return err
	}

	lister, ok := playback.(services.DeviceLister)
	if !ok {
		return fmt.Errorf("%w: %s cannot list devices, run 'pomo spotify auth' first", shared.ErrServiceUnavailable, playback.Name())
	}

	devices, err := lister.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(devices, cmd.Bool("pretty"))
	case cmd.Bool("csv"):
		data, err := formatter.DevicesToCSV(devices)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	target, _ := services.PickDevice(devices)
	return r.writePlain("%s", formatter.DevicesToText(devices, target.ID))
}

// SpotifyPause pauses playback.
func (r *Runner) SpotifyPause(ctx context.Context, cmd *cli.Command) error {
	return r.playbackAction(ctx, cmd, "pause")
}

// SpotifyResume resumes playback on the active device.
func (r *Runner) SpotifyResume(ctx context.Context, cmd *cli.Command) error {
	return r.playbackAction(ctx, cmd, "resume")
}

func (r *Runner) playbackAction(ctx context.Context, cmd *cli.Command, action string) error {
	if err := r.useConfig(cmd); err != nil {
		return err
	}

	playback, err := r.spotify()
	if err != nil {
		return err
	}

	call := playback.Pause
	if action == "resume" {
		call = playback.Resume
	}

	timeout := r.config.Timer.PlaybackTimeout.Duration
	if timeout <= 0 {
		timeout = defaultPlaybackTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := call(callCtx); err != nil {
		if errors.Is(err, shared.ErrNoActiveDevice) {
			r.writePlain("⚠ No active device. Open Spotify on a device and try again.\n")
		}
		return fmt.Errorf("%s failed: %w", action, err)
	}

	r.logger.Debug("playback call succeeded", "action", action, "playback", playback.Name())
	return r.writePlain("✓ %s: %s\n", playback.Name(), action)
}
