package config

import (
	"fmt"
	"strings"

	"reelsort/internal/services"
)

// Validate checks fields the pipeline cannot run without. Failures here abort
// the run before any file is touched.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"tmdb.api_key is required; create one at https://www.themoviedb.org/settings/api", nil)
	}
	if strings.TrimSpace(c.TMDB.BaseURL) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "tmdb.base_url must not be empty", nil)
	}
	switch c.Library.Layout {
	case "flat", "folders":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("library.layout must be %q or %q, got %q", "flat", "folders", c.Library.Layout), nil)
	}
	if c.Match.MovieGate <= 0 || c.Match.MovieGate >= 1 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("match.movie_gate must be in (0, 1), got %v", c.Match.MovieGate), nil)
	}
	if c.Match.SeriesGate <= 0 || c.Match.SeriesGate >= 1 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("match.series_gate must be in (0, 1), got %v", c.Match.SeriesGate), nil)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format), nil)
	}
	return nil
}
