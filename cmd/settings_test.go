package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/pomo/internal/repositories"
	"github.com/desertthunder/pomo/internal/session"
	"github.com/desertthunder/pomo/internal/shared"
)

func TestSettings(t *testing.T) {
	t.Run("show defaults", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(context.Background(), "settings", "show"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Work:  25 min (1500s)", "Break: 5 min (300s)", "Store: yaml"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("set then show as JSON", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(context.Background(), "settings", "set", "--work", "30", "--break", "10"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "✓ Settings saved") {
			t.Errorf("unexpected output %q", env.output.String())
		}

		env.output.Reset()
		if err := env.run(context.Background(), "settings", "show", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got map[string]int
		if err := json.Unmarshal(env.output.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", env.output.String(), err)
		}
		if got[session.WorkTimeKey] != 1800 || got[session.BreakTimeKey] != 600 {
			t.Errorf("unexpected settings %v", got)
		}

		store, err := repositories.NewFileStore(env.config.Storage.Path)
		if err != nil {
			t.Fatal(err)
		}
		if v, _, _ := store.Get(session.WorkTimeKey); v != "1800" {
			t.Errorf("expected stored work time 1800, got %q", v)
		}
	})

	t.Run("set only break keeps work", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(context.Background(), "settings", "set", "-b", "15"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, "Work:  25 min") || !strings.Contains(out, "Break: 15 min") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("rejects durations under a minute", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(context.Background(), "settings", "set", "--work", "0")
		if !errors.Is(err, shared.ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration, got %v", err)
		}

		store, err := repositories.NewFileStore(env.config.Storage.Path)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := store.Get(session.WorkTimeKey); ok {
			t.Error("invalid duration must not be persisted")
		}
	})

	t.Run("requires a flag", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(context.Background(), "settings", "set")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
