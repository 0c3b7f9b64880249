package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Storage.Driver != "sqlite" {
			t.Errorf("expected storage driver sqlite, got %s", config.Storage.Driver)
		}

		if config.Storage.Path != "./pomo.db" {
			t.Errorf("expected storage path ./pomo.db, got %s", config.Storage.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Timer.TickInterval.Duration != time.Second {
			t.Errorf("expected tick interval 1s, got %v", config.Timer.TickInterval)
		}

		if config.Credentials.Spotify.AuthMode != AuthModeUser {
			t.Errorf("expected auth mode user, got %s", config.Credentials.Spotify.AuthMode)
		}

		if config.Credentials.Spotify.Configured() {
			t.Error("default config must not carry credentials")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Storage.Path != DefaultConfig().Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[storage]
driver = "yaml"
path = "/custom/settings.yaml"

[server]
port = 8080

[timer]
tick_interval = "250ms"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
auth_mode = "client_credentials"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Storage.Driver != "yaml" {
			t.Errorf("expected driver yaml, got %s", config.Storage.Driver)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected default host to survive partial file, got %s", config.Server.Host)
		}

		if config.Timer.TickInterval.Duration != 250*time.Millisecond {
			t.Errorf("expected tick interval 250ms, got %v", config.Timer.TickInterval)
		}

		if config.Credentials.Spotify.AuthMode != AuthModeClientCredentials {
			t.Errorf("expected client_credentials, got %s", config.Credentials.Spotify.AuthMode)
		}
	})

	t.Run("LoadConfig rejects unknown values", func(t *testing.T) {
		tmpDir := t.TempDir()

		for name, body := range map[string]string{
			"auth mode": "[credentials.spotify]\nauth_mode = \"implicit\"\n",
			"driver":    "[storage]\ndriver = \"postgres\"\n",
			"interval":  "[timer]\ntick_interval = \"soon\"\n",
		} {
			t.Run(name, func(t *testing.T) {
				configPath := filepath.Join(tmpDir, name+".toml")
				if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}
				if _, err := LoadConfig(configPath); err == nil {
					t.Error("expected error")
				}
			})
		}
	})

	t.Run("Env overrides secrets", func(t *testing.T) {
		t.Setenv(envClientID, "env_id")
		t.Setenv(envClientSecret, "env_secret")

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		body := "[credentials.spotify]\nclient_id = \"file_id\"\n"
		if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("SaveConfig round trips tokens", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
		err := config.Credentials.Spotify.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       expiry,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil {
			t.Fatal("expected stored token")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})
}

func TestSpotifyConfigUpdate(t *testing.T) {
	t.Run("keeps refresh token when new token has none", func(t *testing.T) {
		s := SpotifyConfig{RefreshToken: "old_refresh"}
		if err := s.Update(&oauth2.Token{AccessToken: "new_access"}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if s.RefreshToken != "old_refresh" {
			t.Errorf("expected refresh token to be kept, got %s", s.RefreshToken)
		}
	})

	t.Run("rejects empty token", func(t *testing.T) {
		s := SpotifyConfig{}
		if err := s.Update(&oauth2.Token{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err := s.Update(nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("token is nil without stored values", func(t *testing.T) {
		if (SpotifyConfig{}).Token() != nil {
			t.Error("expected nil token")
		}
	})
}
