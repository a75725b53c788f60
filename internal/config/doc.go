// Package config loads and validates the TOML configuration file.
//
// Defaults mirror the embedded sample_config.toml; partial files are
// backfilled field by field so users only declare what they change. The only
// hard requirement is a TMDB API key — validation failures surface as
// configuration errors, which abort a run before any file is processed.
package config
