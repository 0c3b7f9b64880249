// package services defines interface Playback for controlling music playback over HTTP APIs
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/shared"
)

// Playback is the external collaborator the session timer notifies when it starts, pauses, or resets.
type Playback interface {
	// Name returns a human-readable name for logs (e.g., "Spotify (user)").
	Name() string

	// Pause stops playback on the user's active device.
	Pause(ctx context.Context) error

	// Resume starts or resumes playback.
	Resume(ctx context.Context) error
}

// DeviceLister is implemented by playback services that can enumerate output devices.
type DeviceLister interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
}

var (
	_ Playback     = NoopPlayback{}
	_ Playback     = (*SpotifyClient)(nil)
	_ DeviceLister = (*SpotifyClient)(nil)
)

// NoopPlayback satisfies [Playback] without doing anything.
type NoopPlayback struct{}

func (NoopPlayback) Name() string                 { return "none" }
func (NoopPlayback) Pause(context.Context) error  { return nil }
func (NoopPlayback) Resume(context.Context) error { return nil }

// NewPlayback selects the [Playback] implementation named by cfg.AuthMode.
//
// "none" yields [NoopPlayback]. Missing client credentials yield [shared.ErrMissingCredentials]
// and user mode without a stored token yields [shared.ErrNotAuthenticated]; callers fall back
// to [NoopPlayback] in both cases.
func NewPlayback(cfg shared.SpotifyConfig, opts ...SpotifyOption) (Playback, error) {
	mode := strings.ToLower(cfg.AuthMode)
	if mode == shared.AuthModeNone {
		return NoopPlayback{}, nil
	}

	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	switch mode {
	case shared.AuthModeClientCredentials:
		return NewClientCredentialsPlayback(cfg.ClientID, cfg.ClientSecret, opts...)
	case shared.AuthModeUser, "":
		oauthCfg := NewOAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
		return NewUserPlayback(oauthCfg, cfg.Token(), opts...)
	default:
		return nil, fmt.Errorf("%w: unknown auth_mode %q", shared.ErrInvalidConfig, cfg.AuthMode)
	}
}
