package trailer

import (
	"hash/fnv"
	"strings"

	"golang.org/x/text/language"

	"reelsort/internal/tmdb"
)

const youTubeWatchURL = "https://www.youtube.com/watch?v="

// PickBest selects the most promising trailer from a video listing. YouTube
// entries with a key are preferred wholesale; only when none exist does the
// full listing compete. Returns false when the listing is empty.
func PickBest(videos []tmdb.Video, locale string) (tmdb.Video, bool) {
	if len(videos) == 0 {
		return tmdb.Video{}, false
	}
	pool := make([]tmdb.Video, 0, len(videos))
	for _, v := range videos {
		if strings.EqualFold(v.Site, "YouTube") && v.Key != "" {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		pool = videos
	}

	prefs := preferenceChain(locale)
	best := 0
	bestScore := score(pool[0], prefs)
	for i := 1; i < len(pool); i++ {
		if s := score(pool[i], prefs); s > bestScore {
			best, bestScore = i, s
		}
	}
	return pool[best], true
}

// WatchURL builds the playable URL for a selected video.
func WatchURL(v tmdb.Video) string {
	if strings.EqualFold(v.Site, "YouTube") {
		return youTubeWatchURL + v.Key
	}
	return ""
}

// score ranks a video by type, official flag, site, resolution, name, and
// language fit, with a small deterministic tiebreak derived from the publish
// timestamp so equal candidates pick stably.
func score(v tmdb.Video, prefs []language.Tag) float64 {
	var s float64
	switch strings.ToLower(v.Type) {
	case "trailer":
		s += 3
	case "teaser":
		s += 1
	}
	if v.Official {
		s += 3
	}
	if strings.EqualFold(v.Site, "YouTube") {
		s += 2
	}
	switch {
	case v.Size >= 1080:
		s += 2
	case v.Size >= 720:
		s += 1
	}
	name := strings.ToLower(v.Name)
	switch {
	case strings.Contains(name, "official trailer"):
		s += 2
	case strings.Contains(name, "trailer"):
		s += 1
	}
	s += languageScore(v.Language, prefs)
	s += publishTiebreak(v.PublishedAt)
	return s
}

// preferenceChain builds the ordered language preferences for a locale like
// "fr-FR": the full tag, its base language, then en-US and en. Duplicates
// keep their first position. Video language codes are bare ISO 639-1, so the
// full-preference bonus only applies when the configured locale is itself a
// bare language tag.
func preferenceChain(locale string) []language.Tag {
	var prefs []language.Tag
	add := func(t language.Tag) {
		for _, p := range prefs {
			if p == t {
				return
			}
		}
		prefs = append(prefs, t)
	}
	if tag, err := language.Parse(locale); err == nil {
		add(tag)
		if base, conf := tag.Base(); conf != language.No {
			add(language.Make(base.String()))
		}
	}
	add(language.AmericanEnglish)
	add(language.English)
	return prefs
}

func languageScore(code string, prefs []language.Tag) float64 {
	if strings.TrimSpace(code) == "" {
		return 0.2
	}
	tag, err := language.Parse(code)
	if err != nil {
		return 0
	}
	for i, p := range prefs {
		if tag == p {
			if i == 0 {
				return 2
			}
			return 1
		}
	}
	// A regional English code still counts as a weak match against the
	// English fallback preferences.
	if base, conf := tag.Base(); conf != language.No && base == englishBase {
		return 1
	}
	return 0
}

var englishBase, _ = language.English.Base()

// publishTiebreak maps the publish timestamp onto [0, 1.5) so otherwise equal
// candidates have a stable, arbitrary order.
func publishTiebreak(publishedAt string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(publishedAt))
	return float64(h.Sum32()%1000) / 1000 * 1.5
}
