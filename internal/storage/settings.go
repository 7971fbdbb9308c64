package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ─────────────────────────────────────────────────────────────
// Client settings
// ─────────────────────────────────────────────────────────────
//
// Small key/value rows in app_settings, local to this machine.

const settingSlashRecents = "slash_recents"

// SettingsStore reads and writes app_settings rows.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or "" when unset.
func (s *SettingsStore) Get(key string) (string, error) {
	var v string
	err := s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// LoadRecents implements domain.RecencyStore. The list is stored as a JSON array.
func (s *SettingsStore) LoadRecents() ([]string, error) {
	raw, err := s.Get(settingSlashRecents)
	if err != nil || raw == "" {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode recents: %w", err)
	}
	return ids, nil
}

func (s *SettingsStore) SaveRecents(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode recents: %w", err)
	}
	return s.Set(settingSlashRecents, string(raw))
}
