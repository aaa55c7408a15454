package config

import (
	"os"
	"path/filepath"
	"testing"

	"calgrid/internal/model"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultView != model.ViewWeek {
		t.Errorf("DefaultView = %q, want week", cfg.DefaultView)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again.DefaultCategories) != 3 {
		t.Errorf("reloaded %d default categories, want 3", len(again.DefaultCategories))
	}
}

func TestNormalize(t *testing.T) {
	cats := []model.Category{model.NoCategory()}
	for i := 0; i < 12; i++ {
		cats = append(cats, model.Category{ID: string(rune('a' + i)), Name: "c", Color: "#000"})
	}
	cfg := &Config{DefaultView: "fortnight", DefaultCategories: cats}
	cfg.Normalize()

	if cfg.DefaultView != model.ViewWeek {
		t.Errorf("DefaultView = %q, want week", cfg.DefaultView)
	}
	if got := len(cfg.DefaultCategories); got != model.MaxCategories {
		t.Errorf("kept %d categories, want %d", got, model.MaxCategories)
	}
	for _, c := range cfg.DefaultCategories {
		if c.IsSentinel() {
			t.Errorf("sentinel leaked into default categories")
		}
	}
	if cfg.Resize.PixelsPerStep != 20 || cfg.Resize.MinutesPerStep != 15 {
		t.Errorf("resize = %+v, want 20px/15min", cfg.Resize)
	}
	if cfg.Listen == "" {
		t.Errorf("Listen not defaulted")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CALGRID_LISTEN", ":9999")
	t.Setenv("CALGRID_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Listen != ":9999" {
		t.Errorf("Listen = %q, want :9999", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
