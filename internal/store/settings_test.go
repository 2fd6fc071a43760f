package store

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Settings().Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Settings().Set("theme", "light"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	v, err := s.Settings().Get("theme")
	if err != nil || v != "light" {
		t.Errorf("Get() = %q, %v, want light", v, err)
	}

	all, err := s.Settings().All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 || all["theme"] != "light" {
		t.Errorf("All() = %v", all)
	}
}

func TestSettingsRepository_GameConfig(t *testing.T) {
	base := shapegame.DefaultConfig()

	t.Run("defaults when unset", func(t *testing.T) {
		s := newTestStore(t)

		cfg, err := s.Settings().GameConfig(base)
		if err != nil {
			t.Fatalf("GameConfig() error = %v", err)
		}
		if cfg != base {
			t.Errorf("GameConfig() = %+v, want %+v", cfg, base)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		s := newTestStore(t)

		want := shapegame.Config{ShapeCount: 8, Duration: 90 * time.Second}
		if err := s.Settings().SaveGameConfig(want); err != nil {
			t.Fatalf("SaveGameConfig() error = %v", err)
		}

		cfg, err := s.Settings().GameConfig(base)
		if err != nil {
			t.Fatalf("GameConfig() error = %v", err)
		}
		if cfg != want {
			t.Errorf("GameConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("partial override", func(t *testing.T) {
		s := newTestStore(t)
		s.Settings().Set(SettingSessionSeconds, "30")

		cfg, err := s.Settings().GameConfig(base)
		if err != nil {
			t.Fatalf("GameConfig() error = %v", err)
		}
		if cfg.ShapeCount != base.ShapeCount || cfg.Duration != 30*time.Second {
			t.Errorf("GameConfig() = %+v", cfg)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		s := newTestStore(t)
		s.Settings().Set(SettingShapeCount, "lots")

		cfg, err := s.Settings().GameConfig(base)
		if !errors.Is(err, shapegame.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if cfg != base {
			t.Errorf("GameConfig() should return base on error, got %+v", cfg)
		}
	})

	t.Run("oversized stored value", func(t *testing.T) {
		s := newTestStore(t)
		s.Settings().Set(SettingShapeCount, "4611686018427387904")

		cfg, err := s.Settings().GameConfig(base)
		if !errors.Is(err, shapegame.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if cfg != base {
			t.Errorf("GameConfig() should return base on error, got %+v", cfg)
		}
	})

	t.Run("non-positive value", func(t *testing.T) {
		s := newTestStore(t)
		s.Settings().Set(SettingShapeCount, "0")

		if _, err := s.Settings().GameConfig(base); !errors.Is(err, shapegame.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSettingsRepository_SaveGameConfigValidates(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name string
		cfg  shapegame.Config
	}{
		{name: "zero shapes", cfg: shapegame.Config{ShapeCount: 0, Duration: time.Minute}},
		{name: "too many shapes", cfg: shapegame.Config{ShapeCount: shapegame.MaxShapeCount + 1, Duration: time.Minute}},
		{name: "huge shape count", cfg: shapegame.Config{ShapeCount: 1 << 62, Duration: time.Minute}},
		{name: "sub-second session", cfg: shapegame.Config{ShapeCount: 5, Duration: 500 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Settings().SaveGameConfig(tt.cfg)
			if !errors.Is(err, shapegame.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}
