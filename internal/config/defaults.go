package config

import "path/filepath"

const (
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultMovieFormat         = "{ny}/{ny}"
	defaultSeriesFormatFlat    = "{n} ({y}) - {s00e00} - {t}"
	defaultSeriesFormatFolders = "{ny}/{ny} - Season {s}/{ny} - {s00e00} - {t}"
	defaultLayout              = "flat"
	defaultMovieGate           = 0.25
	defaultSeriesGate          = 0.18
	defaultTrailerBinary       = "yt-dlp"
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
	defaultJournalName         = "reelsort.log.jsonl"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Library: Library{
			MovieFormat:         defaultMovieFormat,
			SeriesFormatFlat:    defaultSeriesFormatFlat,
			SeriesFormatFolders: defaultSeriesFormatFolders,
			Layout:              defaultLayout,
		},
		Match: Match{
			MovieGate:  defaultMovieGate,
			SeriesGate: defaultSeriesGate,
		},
		Trailer: Trailer{
			Binary: defaultTrailerBinary,
		},
		Cleanup: Cleanup{
			Clean: true,
			Prune: true,
		},
		Journal: Journal{
			Path: filepath.Join(configDir(), defaultJournalName),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Run: Run{
			Lock: true,
		},
	}
}
