package tmdb

// Movie is a single movie search result.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	PosterPath    string  `json:"poster_path"`
	Overview      string  `json:"overview"`
}

// DisplayTitle returns the localized title, falling back to the original.
func (m Movie) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.OriginalTitle
}

// Year extracts the release year, 0 when unknown.
func (m Movie) Year() int { return dateYear(m.ReleaseDate) }

// Series is a single TV search result.
type Series struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	PosterPath   string  `json:"poster_path"`
	Overview     string  `json:"overview"`
}

// DisplayName returns the localized name, falling back to the original.
func (s Series) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.OriginalName
}

// Year extracts the first-air year, 0 when unknown.
func (s Series) Year() int { return dateYear(s.FirstAirDate) }

// Episode describes a single TMDB episode entry.
type Episode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date"`
}

// SeasonDetails captures the TMDB season payload.
type SeasonDetails struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	PosterPath   string    `json:"poster_path"`
	Episodes     []Episode `json:"episodes"`
}

// Video is one entry from a /videos listing.
type Video struct {
	Site        string `json:"site"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Official    bool   `json:"official"`
	Size        int    `json:"size"`
	Language    string `json:"iso_639_1"`
	PublishedAt string `json:"published_at"`
	Key         string `json:"key"`
}

// Configuration is the one-time-cached service configuration document.
type Configuration struct {
	Images struct {
		SecureBaseURL string   `json:"secure_base_url"`
		PosterSizes   []string `json:"poster_sizes"`
	} `json:"images"`
}

type movieResponse struct {
	Results []Movie `json:"results"`
}

type seriesResponse struct {
	Results []Series `json:"results"`
}

type videoResponse struct {
	Results []Video `json:"results"`
}

func dateYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
