package match

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"reelsort/internal/logging"
	"reelsort/internal/parse"
	"reelsort/internal/tmdb"
)

// Searcher is the catalog surface the resolver needs. *tmdb.Client satisfies
// it; tests substitute fakes.
type Searcher interface {
	SearchMovie(ctx context.Context, query string, year int) ([]tmdb.Movie, error)
	SearchTV(ctx context.Context, query string, year int) ([]tmdb.Series, error)
}

// Kind discriminates the resolved identity union.
type Kind int

const (
	KindUnresolved Kind = iota
	KindMovie
	KindSeries
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindSeries:
		return "series"
	default:
		return "unresolved"
	}
}

// Identity is the outcome of catalog resolution. Exactly one of Movie or
// Series is set when Kind is not KindUnresolved.
type Identity struct {
	Kind   Kind
	Movie  *tmdb.Movie
	Series *tmdb.Series
}

// SeriesQuery carries everything the series fallback chain draws names from.
type SeriesQuery struct {
	// Path is the video file path whose stem and ancestry seed the guesses.
	Path string
	// ForceShow short-circuits guessing with a caller-supplied show name.
	ForceShow string
	// ForceYear overrides the year every guess would otherwise carry.
	ForceYear int
}

// Resolver turns parsed filename facts into a catalog identity.
type Resolver struct {
	searcher Searcher
	movie    Weights
	series   Weights
	logger   *slog.Logger
}

// NewResolver builds a resolver over the given searcher and scoring profiles.
func NewResolver(searcher Searcher, movie, series Weights, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{searcher: searcher, movie: movie, series: series, logger: logger}
}

// ResolveMovie searches with the year filter first and retries unfiltered
// when the filtered search produced no acceptable candidate. A nil error with
// KindUnresolved means the catalog answered but nothing cleared the gate.
func (r *Resolver) ResolveMovie(ctx context.Context, title string, year int) (Identity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Identity{}, nil
	}
	years := []int{year}
	if year > 0 {
		years = append(years, 0)
	}
	for _, y := range years {
		candidates, err := r.searcher.SearchMovie(ctx, title, y)
		if err != nil {
			return Identity{}, err
		}
		// Score with the year of this attempt: the unfiltered retry must
		// not hand out year-proximity credit it did not filter on.
		if movie, ok := SelectMovie(candidates, title, y, r.movie); ok {
			r.logger.Debug("movie resolved",
				logging.String("query", title),
				logging.String("title", movie.DisplayTitle()),
				logging.Int("year", movie.Year()))
			return Identity{Kind: KindMovie, Movie: movie}, nil
		}
	}
	return Identity{}, nil
}

// ResolveSeries walks the guess chain until a candidate clears the series
// gate: a forced show name, the truncated filename title, the noise-stripped
// filename title, then show names derived from the season folder's parent and
// the file's parent and grandparent directories. Every guess carries the year
// parsed from its own source and is searched without a year filter first,
// then with one; scoring always uses the year of the attempt. Guesses are
// deduplicated case-insensitively and guesses without a single letter are
// skipped.
func (r *Resolver) ResolveSeries(ctx context.Context, q SeriesQuery) (Identity, error) {
	for _, guess := range seriesGuesses(q) {
		years := []int{0}
		if guess.year > 0 {
			years = append(years, guess.year)
		}
		for _, y := range years {
			candidates, err := r.searcher.SearchTV(ctx, guess.name, y)
			if err != nil {
				return Identity{}, err
			}
			if series, ok := SelectSeries(candidates, guess.name, y, r.series); ok {
				r.logger.Debug("series resolved",
					logging.String("query", guess.name),
					logging.String("name", series.DisplayName()),
					logging.Int("year", series.Year()))
				return Identity{Kind: KindSeries, Series: series}, nil
			}
		}
	}
	return Identity{}, nil
}

// ResolveAuto resolves a path without a known media kind. Files carrying an
// episode tag try series identification first; everything else tries movies
// first. The losing kind serves as a fallback either way.
func (r *Resolver) ResolveAuto(ctx context.Context, path string, q SeriesQuery) (Identity, error) {
	title, year, season, _ := parse.ParseBasic(path)
	if q.Path == "" {
		q.Path = path
	}
	if q.ForceYear > 0 {
		year = q.ForceYear
	}

	episodic := season > 0 || q.ForceShow != ""
	if episodic {
		identity, err := r.ResolveSeries(ctx, q)
		if err != nil || identity.Kind != KindUnresolved {
			return identity, err
		}
		return r.ResolveMovie(ctx, title, year)
	}
	identity, err := r.ResolveMovie(ctx, title, year)
	if err != nil || identity.Kind != KindUnresolved {
		return identity, err
	}
	return r.ResolveSeries(ctx, q)
}

// seriesGuess pairs a show name candidate with the year parsed from the same
// source, so each chain step is searched and scored with its own year.
type seriesGuess struct {
	name string
	year int
}

// seriesGuesses assembles the ordered, deduplicated show name chain. The
// first occurrence of a name wins, keeping its year.
func seriesGuesses(q SeriesQuery) []seriesGuess {
	var raw []seriesGuess
	if q.ForceShow != "" {
		raw = append(raw, seriesGuess{parse.NormalizeShowHint(q.ForceShow), 0})
	}

	basicTitle, basicYear, _, _ := parse.ParseBasic(q.Path)
	raw = append(raw, seriesGuess{parse.NormalizeShowHint(basicTitle), basicYear})

	stem := strings.TrimSuffix(filepath.Base(q.Path), filepath.Ext(q.Path))
	stemTitle, stemYear := parse.SplitStemYear(stem)
	raw = append(raw, seriesGuess{parse.NormalizeShowHint(stemTitle), stemYear})

	var dirs []string
	if seasonParent := parse.SeasonFolderParent(q.Path); seasonParent != "" {
		dirs = append(dirs, seasonParent)
	}
	parent := filepath.Dir(q.Path)
	dirs = append(dirs, parent, filepath.Dir(parent))
	for _, dir := range dirs {
		base := filepath.Base(dir)
		if base == "." || base == string(filepath.Separator) {
			continue
		}
		name, year := parse.SplitStemYear(base)
		raw = append(raw, seriesGuess{parse.NormalizeShowHint(name), year})
	}

	seen := make(map[string]struct{}, len(raw))
	guesses := make([]seriesGuess, 0, len(raw))
	for _, guess := range raw {
		guess.name = strings.TrimSpace(guess.name)
		if guess.name == "" || !parse.HasLetter(guess.name) {
			continue
		}
		if q.ForceYear > 0 {
			guess.year = q.ForceYear
		}
		key := strings.ToLower(guess.name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		guesses = append(guesses, guess)
	}
	return guesses
}
