package repositories

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/pomo/internal/shared"
)

const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

// SettingsStore is a key-value settings store that can list its contents and release its resources.
type SettingsStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	All() (map[string]string, error)
	Close() error
}

var (
	_ SettingsStore = (*sqliteStore)(nil)
	_ SettingsStore = (*FileStore)(nil)
)

// sqliteStore couples a [SettingsRepository] to the database it owns.
type sqliteStore struct {
	*SettingsRepository
	db *sql.DB
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// OpenStore opens the settings store named by cfg.Driver.
//
// The sqlite driver opens cfg.Path and applies pending migrations. The yaml driver uses cfg.Path
// when it names a .yaml or .yml file and the user config directory otherwise.
func OpenStore(cfg shared.StorageConfig) (SettingsStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &sqliteStore{SettingsRepository: NewSettingsRepository(db), db: db}, nil
	case DriverYAML:
		path := cfg.Path
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
			var err error
			if path, err = DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownStorage, cfg.Driver)
	}
}
