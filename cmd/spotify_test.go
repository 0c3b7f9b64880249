package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/shared"
	"golang.org/x/oauth2"
)

func withCredentials(t *testing.T, env *testEnv, mode string) {
	t.Helper()
	env.config.Credentials.Spotify.ClientID = "test_client_id"
	env.config.Credentials.Spotify.ClientSecret = "test_client_secret"
	env.config.Credentials.Spotify.AuthMode = mode
	if err := shared.SaveConfig(env.configPath, env.config); err != nil {
		t.Fatal(err)
	}
}

func TestSpotifyAuth(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		t.Setenv("POMO_SPOTIFY_CLIENT_ID", "")
		t.Setenv("POMO_SPOTIFY_CLIENT_SECRET", "")
		env := newTestEnv(t)

		err := env.run(context.Background(), "spotify", "auth")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("implicit prints the authorize URL", func(t *testing.T) {
		env := newTestEnv(t)
		withCredentials(t, env, shared.AuthModeUser)

		if err := env.run(context.Background(), "spotify", "auth", "--implicit"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, "response_type=token") || !strings.Contains(out, "client_id=test_client_id") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Contains(out, "test_client_secret") {
			t.Error("client secret must not be printed")
		}
	})

	t.Run("redirect URL saves the token and switches to user mode", func(t *testing.T) {
		env := newTestEnv(t)
		withCredentials(t, env, shared.AuthModeClientCredentials)

		redirect := "http://127.0.0.1:3000/callback#access_token=pasted&token_type=Bearer&expires_in=3600"
		if err := env.run(context.Background(), "spotify", "auth", "--redirect-url", redirect); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		saved, err := shared.LoadConfig(env.configPath)
		if err != nil {
			t.Fatal(err)
		}
		if saved.Credentials.Spotify.AccessToken != "pasted" {
			t.Errorf("expected saved access token, got %q", saved.Credentials.Spotify.AccessToken)
		}
		if saved.Credentials.Spotify.AuthMode != shared.AuthModeUser {
			t.Errorf("expected user auth mode, got %q", saved.Credentials.Spotify.AuthMode)
		}
		if !strings.Contains(env.output.String(), "✓ Authorization successful") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("redirect URL with an error", func(t *testing.T) {
		env := newTestEnv(t)
		withCredentials(t, env, shared.AuthModeUser)

		err := env.run(context.Background(), "spotify", "auth", "--redirect-url", "http://127.0.0.1:3000/callback#error=access_denied")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

// freePort reserves and releases a local port for the callback server.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestDoOAuth(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "granted" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"user-token","refresh_token":"user-refresh","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	setup := func(t *testing.T, browser func(authURL, callback string) error) (*testEnv, *oauth2.Config) {
		env := newTestEnv(t)
		port := freePort(t)
		env.runner.config.Server = shared.ServerConfig{Host: "127.0.0.1", Port: port}
		callback := fmt.Sprintf("http://127.0.0.1:%d/callback", port)
		env.runner.openBrowser = func(authURL string) error { return browser(authURL, callback) }

		cfg := &oauth2.Config{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURL:  callback,
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://accounts.example.com/authorize",
				TokenURL:  tokenServer.URL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}
		return env, cfg
	}

	visit := func(callback string, query url.Values) error {
		resp, err := http.Get(callback + "?" + query.Encode())
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}

	t.Run("exchanges the code from the callback", func(t *testing.T) {
		env, cfg := setup(t, func(authURL, callback string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			if u.Query().Get("show_dialog") != "true" {
				return errors.New("missing show_dialog")
			}
			return visit(callback, url.Values{"code": {"granted"}, "state": {u.Query().Get("state")}})
		})

		token, err := env.runner.doOAuth(context.Background(), cfg)
		if err != nil {
			t.Fatalf("expected token, got %v", err)
		}
		if token.AccessToken != "user-token" || token.RefreshToken != "user-refresh" {
			t.Errorf("unexpected token %+v", token)
		}
		if !strings.Contains(env.output.String(), "Waiting for authorization") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("state mismatch after browser failure", func(t *testing.T) {
		env, cfg := setup(t, func(authURL, callback string) error {
			if err := visit(callback, url.Values{"code": {"granted"}, "state": {"forged"}}); err != nil {
				return err
			}
			return errors.New("no browser")
		})

		_, err := env.runner.doOAuth(context.Background(), cfg)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(env.output.String(), "Please open this URL") {
			t.Errorf("expected manual URL hint, got %q", env.output.String())
		}
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		env, cfg := setup(t, func(string, string) error {
			cancel()
			return nil
		})

		if _, err := env.runner.doOAuth(ctx, cfg); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("port in use", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer l.Close()

		env, cfg := setup(t, func(string, string) error { return nil })
		env.runner.config.Server.Port = l.Addr().(*net.TCPAddr).Port

		if _, err := env.runner.doOAuth(context.Background(), cfg); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSpotifyDevices(t *testing.T) {
	volume := 40
	devices := []models.Device{
		{ID: "phone", Name: "Phone", Type: "Smartphone"},
		{ID: "laptop", Name: "Laptop", Type: "Computer", IsActive: true, VolumePercent: &volume},
	}

	t.Run("text marks the target device", func(t *testing.T) {
		env := newTestEnv(t)
		env.playback.SetDevices(devices)

		if err := env.run(context.Background(), "spotify", "devices"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, "→ 2. Laptop (Computer)") || !strings.Contains(out, "  1. Phone (Smartphone)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t)
		env.playback.SetDevices(devices)

		if err := env.run(context.Background(), "spotify", "devices", "--json", "--pretty=false"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var got []models.Device
		if err := json.Unmarshal(env.output.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[1].ID != "laptop" || !got[1].IsActive {
			t.Errorf("unexpected devices %+v", got)
		}
	})

	t.Run("csv", func(t *testing.T) {
		env := newTestEnv(t)
		env.playback.SetDevices(devices)

		if err := env.run(context.Background(), "spotify", "devices", "--csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := env.output.String()
		if !strings.HasPrefix(out, "ID,Name,Type,Active,Restricted,Volume\n") || !strings.Contains(out, "laptop,Laptop,Computer,true,false,40") {
			t.Errorf("unexpected CSV:\n%s", out)
		}
	})

	t.Run("playback without device listing", func(t *testing.T) {
		env := newTestEnv(t)
		env.runner.playback = services.NoopPlayback{}

		err := env.run(context.Background(), "spotify", "devices")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("list failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.playback.Fail(shared.ErrNotAuthenticated)

		err := env.run(context.Background(), "spotify", "devices")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSpotifyPlayback(t *testing.T) {
	t.Run("pause and resume", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(context.Background(), "spotify", "pause"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := env.run(context.Background(), "spotify", "resume"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := env.playback.Calls(); len(got) != 2 || got[0] != "pause" || got[1] != "resume" {
			t.Errorf("unexpected calls %v", got)
		}
		out := env.output.String()
		if !strings.Contains(out, "✓ mock: pause") || !strings.Contains(out, "✓ mock: resume") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("no active device", func(t *testing.T) {
		env := newTestEnv(t)
		env.playback.Fail(shared.ErrNoActiveDevice)

		err := env.run(context.Background(), "spotify", "resume")
		if !errors.Is(err, shared.ErrNoActiveDevice) {
			t.Fatalf("expected ErrNoActiveDevice, got %v", err)
		}
		if !strings.Contains(env.output.String(), "No active device") {
			t.Errorf("expected hint, got %q", env.output.String())
		}
	})

	t.Run("missing credentials surface", func(t *testing.T) {
		t.Setenv("POMO_SPOTIFY_CLIENT_ID", "")
		t.Setenv("POMO_SPOTIFY_CLIENT_SECRET", "")
		env := newTestEnv(t)
		env.runner.playback = nil

		err := env.run(context.Background(), "spotify", "pause")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
