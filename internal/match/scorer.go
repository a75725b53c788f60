package match

import (
	"reelsort/internal/parse"
	"reelsort/internal/textutil"
	"reelsort/internal/tmdb"
)

// ScoredMovie pairs a movie candidate with its composite score.
type ScoredMovie struct {
	Movie tmdb.Movie
	Score float64
}

// ScoredSeries pairs a series candidate with its composite score.
type ScoredSeries struct {
	Series tmdb.Series
	Score  float64
}

// ScoreMovies scores every candidate against the query title and year. The
// returned slice preserves the candidate order.
func ScoreMovies(candidates []tmdb.Movie, title string, year int, w Weights) []ScoredMovie {
	scored := make([]ScoredMovie, 0, len(candidates))
	for _, cand := range candidates {
		score := w.Similarity*textutil.Jaccard(title, cand.DisplayTitle()) +
			w.Year*w.yearScore(year, cand.Year()) +
			w.Popularity*popularityScore(cand.Popularity)
		scored = append(scored, ScoredMovie{Movie: cand, Score: score})
	}
	return scored
}

// ScoreSeries scores every candidate against the query title and year. The
// returned slice preserves the candidate order.
func ScoreSeries(candidates []tmdb.Series, title string, year int, w Weights) []ScoredSeries {
	scored := make([]ScoredSeries, 0, len(candidates))
	for _, cand := range candidates {
		score := w.Similarity*textutil.Jaccard(title, cand.DisplayName()) +
			w.Year*w.yearScore(year, cand.Year()) +
			w.Popularity*popularityScore(cand.Popularity)
		scored = append(scored, ScoredSeries{Series: cand, Score: score})
	}
	return scored
}

// SelectMovie picks the highest scoring movie candidate, earliest candidate
// winning ties, and rejects selections below the acceptance gate.
func SelectMovie(candidates []tmdb.Movie, title string, year int, w Weights) (*tmdb.Movie, bool) {
	scored := ScoreMovies(candidates, title, year, w)
	best := -1
	for i, s := range scored {
		if best < 0 || s.Score > scored[best].Score {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	gate := w.Gate
	if w.PureYearGate > 0 && parse.IsPureYear(title) {
		gate = w.PureYearGate
	}
	if scored[best].Score < gate {
		return nil, false
	}
	movie := scored[best].Movie
	return &movie, true
}

// SelectSeries picks the highest scoring series candidate, earliest candidate
// winning ties, and rejects selections below the acceptance gate.
func SelectSeries(candidates []tmdb.Series, title string, year int, w Weights) (*tmdb.Series, bool) {
	scored := ScoreSeries(candidates, title, year, w)
	best := -1
	for i, s := range scored {
		if best < 0 || s.Score > scored[best].Score {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	if scored[best].Score < w.Gate {
		return nil, false
	}
	series := scored[best].Series
	return &series, true
}
