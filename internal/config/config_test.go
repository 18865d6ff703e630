package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.MaxHotspots != 10 {
		t.Errorf("expected default max hotspots 10, got %d", cfg.Analysis.MaxHotspots)
	}
	if cfg.Analysis.RefreshInterval != 5*time.Minute {
		t.Errorf("expected default refresh interval 5m, got %v", cfg.Analysis.RefreshInterval)
	}
	if cfg.Firms.Source != "VIIRS_SNPP_NRT" {
		t.Errorf("unexpected default FIRMS source: %s", cfg.Firms.Source)
	}
	if cfg.Predictor.Timeout != 15*time.Second {
		t.Errorf("expected default model timeout 15s, got %v", cfg.Predictor.Timeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_HOTSPOTS", "25")
	t.Setenv("REFRESH_INTERVAL", "10m")
	t.Setenv("FIRMS_API_KEY", "abc123")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.MaxHotspots != 25 {
		t.Errorf("expected max hotspots 25, got %d", cfg.Analysis.MaxHotspots)
	}
	if cfg.Analysis.RefreshInterval != 10*time.Minute {
		t.Errorf("expected refresh interval 10m, got %v", cfg.Analysis.RefreshInterval)
	}
	if cfg.Firms.APIKey != "abc123" {
		t.Errorf("FIRMS API key not picked up")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid_port", "SERVER_PORT", "70000"},
		{"invalid_log_level", "LOG_LEVEL", "verbose"},
		{"zero_hotspots", "MAX_HOTSPOTS", "0"},
		{"zero_workers", "ANALYSIS_WORKERS", "0"},
		{"refresh_too_short", "REFRESH_INTERVAL", "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected validation error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestGetEnvInt_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("MAX_HOTSPOTS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.MaxHotspots != 10 {
		t.Errorf("expected fallback to 10, got %d", cfg.Analysis.MaxHotspots)
	}
}
