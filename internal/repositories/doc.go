// Package repositories implements persistence for the timer's settings.
//
// Two stores satisfy [session.Store], selected by the storage driver in config:
//   - [SettingsRepository] : SQLite key-value table created by the embedded migrations
//   - [FileStore] : a YAML document in the user's config directory
//
// [OpenStore] builds the configured store and owns its underlying resources.
package repositories
