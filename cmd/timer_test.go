package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/pomo/internal/repositories"
	"github.com/desertthunder/pomo/internal/session"
)

// seedDurations writes work and break lengths in seconds to the env's settings file.
func seedDurations(t *testing.T, env *testEnv, work, brk string) {
	t.Helper()

	store, err := repositories.NewFileStore(env.config.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.WorkTimeKey, work); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.BreakTimeKey, brk); err != nil {
		t.Fatal(err)
	}
}

// runTimer starts the timer command and advances the fake clock until it returns.
func runTimer(t *testing.T, env *testEnv, ctx context.Context, args ...string) error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- env.run(ctx, append([]string{"timer"}, args...)...)
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("timer command did not return")
			return nil
		case <-time.After(5 * time.Millisecond):
			env.clock.Advance(time.Second)
		}
	}
}

func TestTimer(t *testing.T) {
	t.Run("stops after the requested phase changes", func(t *testing.T) {
		env := newTestEnv(t)
		seedDurations(t, env, "2", "1")

		if err := runTimer(t, env, context.Background(), "--cycles", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{
			"Work Time  00:02",
			"\rWork Time  00:01",
			"\a\n" + session.BreakMessage + "\n",
			"\a\n" + session.WorkMessage + "\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%q", want, out)
			}
		}
		if strings.Count(out, "\a") != 2 {
			t.Errorf("expected two bells, got %q", out)
		}
		if env.playback.Resumes() != 1 {
			t.Errorf("expected one resume, got %d", env.playback.Resumes())
		}
	})

	t.Run("returns on cancellation", func(t *testing.T) {
		env := newTestEnv(t)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- env.run(ctx, "timer")
		}()

		waitCtx, stopWaiting := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopWaiting()
		if err := env.clock.BlockUntilContext(waitCtx, 1); err != nil {
			t.Fatalf("timer never registered its ticker: %v", err)
		}
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timer command did not return after cancel")
		}

		if !strings.Contains(env.output.String(), "Work Time  25:00") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("runs on defaults when the store cannot open", func(t *testing.T) {
		env := newTestEnv(t)
		env.runner.config.Storage.Driver = "postgres"

		timer, closeStore := env.runner.newTimer(env.playback)
		defer closeStore()
		defer timer.Close()

		if snap := timer.Snapshot(); snap.Work != session.DefaultWorkSeconds || snap.Break != session.DefaultBreakSeconds {
			t.Errorf("expected defaults, got %+v", snap)
		}
	})
}
