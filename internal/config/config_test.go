package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsort/internal/services"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[tmdb]\napi_key = \"secret\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.BaseURL != defaultTMDBBaseURL {
		t.Errorf("base url = %q, want default", cfg.TMDB.BaseURL)
	}
	if cfg.Library.MovieFormat != "{ny}/{ny}" {
		t.Errorf("movie format = %q, want default", cfg.Library.MovieFormat)
	}
	if cfg.Match.MovieGate != 0.25 || cfg.Match.SeriesGate != 0.18 {
		t.Errorf("gates = %v/%v, want defaults", cfg.Match.MovieGate, cfg.Match.SeriesGate)
	}
	if !cfg.Cleanup.Clean || !cfg.Cleanup.Prune {
		t.Error("cleanup defaults should be enabled")
	}
	if cfg.Journal.Path == "" {
		t.Error("journal path should default next to the config dir")
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	path := writeConfig(t, "[library]\nlayout = \"folders\"\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[tmdb]\napi_key = \"secret\"\ntypo_key = true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsBadLayout(t *testing.T) {
	path := writeConfig(t, "[tmdb]\napi_key = \"k\"\n[library]\nlayout = \"tree\"\n")
	_, err := Load(path)
	if err == nil || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for bad layout, got %v", err)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	_, err := LoadOrDefault(path)
	// Defaults carry no API key, so validation still rejects the run.
	if err == nil || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatalf("sample missing tmdb section: %s", data)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}

func TestValidateGateBounds(t *testing.T) {
	cfg := Default()
	cfg.TMDB.APIKey = "k"
	cfg.Match.MovieGate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range gate")
	}
}
