package session

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Keys under which durations are persisted, as stringified whole seconds.
const (
	WorkTimeKey  = "workTime"
	BreakTimeKey = "breakTime"
)

const (
	DefaultWorkSeconds  = 1500
	DefaultBreakSeconds = 300
)

// Store is the persisted settings collaborator.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// LoadDurations reads the work and break durations from store.
//
// Each value falls back to its default when it is absent, unparsable, or not positive.
// Read errors are logged and treated as absent.
func LoadDurations(store Store, logger *log.Logger) (work, brk int) {
	return loadSeconds(store, logger, WorkTimeKey, DefaultWorkSeconds),
		loadSeconds(store, logger, BreakTimeKey, DefaultBreakSeconds)
}

func loadSeconds(store Store, logger *log.Logger, key string, fallback int) int {
	if store == nil {
		return fallback
	}

	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Warn("failed to read setting, using default", "key", key, "default", fallback, "err", err)
		return fallback
	}
	if !ok {
		return fallback
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		logger.Warn("ignoring malformed setting", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return seconds
}
