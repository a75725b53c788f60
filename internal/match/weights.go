package match

// Weights are the tunable constants of the composite candidate score. The
// defaults are empirically tuned rather than derived, so they live in data
// instead of being hard-coded into the scoring functions.
type Weights struct {
	// Similarity, Year, and Popularity weight the three score components.
	Similarity float64
	Year       float64
	Popularity float64

	// YearExact/YearOffOne/YearOffTwo are the year-proximity scores for a
	// zero, one, and two year difference; larger gaps score zero.
	YearExact  float64
	YearOffOne float64
	YearOffTwo float64

	// Gate is the minimum composite score a candidate must clear.
	Gate float64
	// PureYearGate replaces Gate when the query title is itself a bare
	// 4-digit year and carries no title signal. Zero disables the override.
	PureYearGate float64
}

// MovieWeights returns the default movie scoring constants.
func MovieWeights() Weights {
	return Weights{
		Similarity:   0.65,
		Year:         0.25,
		Popularity:   0.10,
		YearExact:    1.0,
		YearOffOne:   0.7,
		YearOffTwo:   0.4,
		Gate:         0.25,
		PureYearGate: 0.20,
	}
}

// SeriesWeights returns the default series scoring constants. Series
// weighting leans harder on title similarity and is less year-lenient than
// the movie profile.
func SeriesWeights() Weights {
	return Weights{
		Similarity: 0.72,
		Year:       0.18,
		Popularity: 0.10,
		YearExact:  1.0,
		YearOffOne: 0.6,
		YearOffTwo: 0.3,
		Gate:       0.18,
	}
}

func (w Weights) yearScore(wantYear, haveYear int) float64 {
	if wantYear == 0 || haveYear == 0 {
		return 0
	}
	diff := wantYear - haveYear
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return w.YearExact
	case 1:
		return w.YearOffOne
	case 2:
		return w.YearOffTwo
	default:
		return 0
	}
}

// popularityScore clamps popularity to [0, 200] and scales it to [0, 0.5].
func popularityScore(popularity float64) float64 {
	if popularity <= 0 {
		return 0
	}
	score := popularity / 200.0
	if score > 0.5 {
		return 0.5
	}
	return score
}
