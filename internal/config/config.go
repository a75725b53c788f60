package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Library contains the path templates used when renaming.
type Library struct {
	MovieFormat         string `toml:"movie_format"`
	SeriesFormatFlat    string `toml:"series_format_flat"`
	SeriesFormatFolders string `toml:"series_format_folders"`
	Layout              string `toml:"layout"`
}

// Match contains the confidence gates for candidate acceptance.
type Match struct {
	MovieGate  float64 `toml:"movie_gate"`
	SeriesGate float64 `toml:"series_gate"`
}

// Trailer contains configuration for the external trailer fetcher.
type Trailer struct {
	Enabled bool   `toml:"enabled"`
	Binary  string `toml:"binary"`
	Strict  bool   `toml:"strict"`
}

// Cleanup controls clutter removal and empty-directory pruning.
type Cleanup struct {
	Clean bool `toml:"clean"`
	Prune bool `toml:"prune"`
}

// Journal configures the append-only action journal.
type Journal struct {
	Path string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Run contains run-scoped behavior toggles.
type Run struct {
	// Lock acquires an advisory lock on the processed root before mutating.
	Lock bool `toml:"lock"`
}

// Config is the top-level application configuration.
type Config struct {
	TMDB    TMDB    `toml:"tmdb"`
	Library Library `toml:"library"`
	Match   Match   `toml:"match"`
	Trailer Trailer `toml:"trailer"`
	Cleanup Cleanup `toml:"cleanup"`
	Journal Journal `toml:"journal"`
	Logging Logging `toml:"logging"`
	Run     Run     `toml:"run"`
}

// DefaultPath returns the canonical config file location.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, "reelsort")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reelsort"
	}
	return filepath.Join(home, ".config", "reelsort")
}

// Load reads and validates the config file at path. A missing file is an
// error; use LoadOrDefault when defaults should stand in.
func Load(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads the config file at path, falling back to defaults when
// the file does not exist. Validation still applies either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fallback := Default()
			cfg = &fallback
		} else {
			return nil, err
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	decoder := toml.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample config to path, refusing to clobber
// an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// Sample returns the embedded sample configuration text.
func Sample() string {
	return sampleConfig
}

// applyDefaults backfills zero values so partial config files stay valid.
func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.TMDB.BaseURL) == "" {
		c.TMDB.BaseURL = def.TMDB.BaseURL
	}
	if strings.TrimSpace(c.TMDB.Language) == "" {
		c.TMDB.Language = def.TMDB.Language
	}
	if strings.TrimSpace(c.Library.MovieFormat) == "" {
		c.Library.MovieFormat = def.Library.MovieFormat
	}
	if strings.TrimSpace(c.Library.SeriesFormatFlat) == "" {
		c.Library.SeriesFormatFlat = def.Library.SeriesFormatFlat
	}
	if strings.TrimSpace(c.Library.SeriesFormatFolders) == "" {
		c.Library.SeriesFormatFolders = def.Library.SeriesFormatFolders
	}
	if strings.TrimSpace(c.Library.Layout) == "" {
		c.Library.Layout = def.Library.Layout
	}
	if c.Match.MovieGate == 0 {
		c.Match.MovieGate = def.Match.MovieGate
	}
	if c.Match.SeriesGate == 0 {
		c.Match.SeriesGate = def.Match.SeriesGate
	}
	if strings.TrimSpace(c.Trailer.Binary) == "" {
		c.Trailer.Binary = def.Trailer.Binary
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = def.Journal.Path
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = def.Logging.Level
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = def.Logging.Format
	}
	c.Journal.Path = expandHome(c.Journal.Path)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
