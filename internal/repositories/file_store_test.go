package repositories

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/pomo/internal/session"
	"github.com/desertthunder/pomo/internal/shared"
	tu "github.com/desertthunder/pomo/internal/testing"
)

var _ session.Store = (*FileStore)(nil)

func TestFileStore(t *testing.T) {
	t.Run("Missing file is empty", func(t *testing.T) {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"))
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}

		if _, ok, _ := store.Get(session.WorkTimeKey); ok {
			t.Error("expected empty store")
		}
	})

	t.Run("Set writes and reloads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
		store, _ := NewFileStore(path)

		if err := store.Set(session.WorkTimeKey, "1800"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		store.Set(session.BreakTimeKey, "240")

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "workTime:") || !strings.Contains(content, "1800") {
			t.Errorf("unexpected file content:\n%s", content)
		}

		reloaded, err := NewFileStore(path)
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
		all, _ := reloaded.All()
		if all[session.WorkTimeKey] != "1800" || all[session.BreakTimeKey] != "240" {
			t.Errorf("unexpected reloaded settings %v", all)
		}
	})

	t.Run("No temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		store, _ := NewFileStore(filepath.Join(dir, "settings.yaml"))
		store.Set(session.WorkTimeKey, "60")
		store.Set(session.WorkTimeKey, "120")

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "settings.yaml" {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("expected only settings.yaml, got %v", names)
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		os.WriteFile(path, []byte("workTime: [unterminated"), 0o644)

		if _, err := NewFileStore(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Failed write rolls back", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		store, _ := NewFileStore(filepath.Join(blocker, "settings.yaml"))
		if err := store.Set(session.WorkTimeKey, "60"); err == nil {
			t.Fatal("expected write error under a regular file")
		}
		if _, ok, _ := store.Get(session.WorkTimeKey); ok {
			t.Error("expected failed value to be rolled back")
		}
	})

	t.Run("All returns a copy", func(t *testing.T) {
		store, _ := NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"))
		store.Set(session.WorkTimeKey, "60")

		all, _ := store.All()
		all[session.WorkTimeKey] = "changed"

		if v, _, _ := store.Get(session.WorkTimeKey); v != "60" {
			t.Errorf("All() exposed internal map, got %q", v)
		}
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		store, err := OpenStore(shared.StorageConfig{Driver: "sqlite", Path: ":memory:"})
		if err != nil {
			t.Fatalf("OpenStore() error = %v", err)
		}
		defer store.Close()

		if err := store.Set(session.WorkTimeKey, "900"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if v, ok, _ := store.Get(session.WorkTimeKey); !ok || v != "900" {
			t.Errorf("expected 900, got %q", v)
		}
	})

	t.Run("sqlite file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pomo.db")
		store, err := OpenStore(shared.StorageConfig{Path: path, MaxOpenConns: 2, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("OpenStore() error = %v", err)
		}
		store.Set(session.BreakTimeKey, "120")
		store.Close()

		reopened, err := OpenStore(shared.StorageConfig{Path: path})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer reopened.Close()

		if v, _, _ := reopened.Get(session.BreakTimeKey); v != "120" {
			t.Errorf("expected value to survive reopen, got %q", v)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yml")
		store, err := OpenStore(shared.StorageConfig{Driver: "YAML", Path: path})
		if err != nil {
			t.Fatalf("OpenStore() error = %v", err)
		}

		fs, ok := store.(*FileStore)
		if !ok || fs.Path() != path {
			t.Fatalf("expected file store at %s, got %T", path, store)
		}
	})

	t.Run("yaml defaults to user config dir", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		store, err := OpenStore(shared.StorageConfig{Driver: "yaml", Path: "./pomo.db"})
		if err != nil {
			t.Fatalf("OpenStore() error = %v", err)
		}

		want, _ := DefaultFilePath()
		if fs := store.(*FileStore); fs.Path() != want {
			t.Errorf("expected %s, got %s", want, fs.Path())
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStore(shared.StorageConfig{Driver: "postgres"})
		if !errors.Is(err, shared.ErrUnknownStorage) {
			t.Errorf("expected ErrUnknownStorage, got %v", err)
		}
	})
}
