package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.SnapDistance != 0.5 || cfg.MinWallLength != 0.2 || !cfg.GridEnabled {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SaveInterval != 30*time.Second {
		t.Errorf("SaveInterval = %v, want 30s", cfg.SaveInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNAP_DISTANCE", "0.25")
	t.Setenv("GRID_ENABLED", "false")
	t.Setenv("WALL_THICKNESS", "0.2")
	t.Setenv("SAVE_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.EngineOptions()
	if opts.SnapDistance != 0.25 || opts.GridEnabled || opts.WallThickness != 0.2 {
		t.Errorf("engine options = %+v", opts)
	}
	if cfg.SaveInterval != 5*time.Second {
		t.Errorf("SaveInterval = %v, want 5s", cfg.SaveInterval)
	}
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("PORT", "eighty")
	if _, err := Load(); err == nil {
		t.Error("Load should fail on a non-numeric PORT")
	}
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "http://localhost:5173, https://rooms.example.com ,"}
	if got, want := cfg.Origins(), []string{"http://localhost:5173", "https://rooms.example.com"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Origins = %v, want %v", got, want)
	}
	if got, want := cfg.OriginHosts(), []string{"localhost:5173", "rooms.example.com"}; !reflect.DeepEqual(got, want) {
		t.Errorf("OriginHosts = %v, want %v", got, want)
	}
}
