package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

// Setting keys for the game configuration.
const (
	SettingShapeCount     = "shape_count"
	SettingSessionSeconds = "session_seconds"
)

// SettingsRepository provides access to key-value application settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// GameConfig overlays the stored game settings on base. Missing keys keep
// the base values; malformed or non-positive values are reported.
func (r *SettingsRepository) GameConfig(base shapegame.Config) (shapegame.Config, error) {
	cfg := base

	count, err := r.positiveInt(SettingShapeCount)
	if err != nil {
		return base, err
	}
	if count > shapegame.MaxShapeCount {
		return base, fmt.Errorf("setting %s: %w: %d exceeds %d", SettingShapeCount,
			shapegame.ErrInvalidArgument, count, shapegame.MaxShapeCount)
	}
	if count > 0 {
		cfg.ShapeCount = count
	}

	seconds, err := r.positiveInt(SettingSessionSeconds)
	if err != nil {
		return base, err
	}
	if seconds > 0 {
		cfg.Duration = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// SaveGameConfig persists the game settings.
func (r *SettingsRepository) SaveGameConfig(cfg shapegame.Config) error {
	if cfg.ShapeCount <= 0 || cfg.ShapeCount > shapegame.MaxShapeCount {
		return fmt.Errorf("%w: shape count must be between 1 and %d, got %d",
			shapegame.ErrInvalidArgument, shapegame.MaxShapeCount, cfg.ShapeCount)
	}
	if cfg.Duration < time.Second {
		return fmt.Errorf("%w: session must last at least a second, got %v", shapegame.ErrInvalidArgument, cfg.Duration)
	}

	if err := r.Set(SettingShapeCount, strconv.Itoa(cfg.ShapeCount)); err != nil {
		return err
	}
	return r.Set(SettingSessionSeconds, strconv.Itoa(int(cfg.Duration/time.Second)))
}

// positiveInt returns 0 when key is unset.
func (r *SettingsRepository) positiveInt(key string) (int, error) {
	raw, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("setting %s: %w: %q is not a positive integer", key, shapegame.ErrInvalidArgument, raw)
	}
	return n, nil
}
