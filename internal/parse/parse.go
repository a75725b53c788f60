package parse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"reelsort/internal/textutil"
)

// VideoExts lists the file extensions eligible for processing.
var VideoExts = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".m4v": {},
	".mpg": {}, ".mpeg": {}, ".ts": {}, ".m2ts": {}, ".flv": {}, ".webm": {},
}

// SubtitleExts lists sidecar subtitle extensions relocated alongside a move.
var SubtitleExts = map[string]struct{}{
	".srt": {}, ".ass": {}, ".ssa": {}, ".sub": {}, ".idx": {}, ".vtt": {},
}

// IsVideo reports whether path carries a supported video extension.
func IsVideo(path string) bool {
	_, ok := VideoExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsSubtitle reports whether path carries a supported subtitle extension.
func IsSubtitle(path string) bool {
	_, ok := SubtitleExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// noisePatterns strip release clutter from a stem before title extraction.
// The library is fixed; additions should stay conservative so legitimate
// title words are never swallowed.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:480p|720p|1080p|2160p|4k|8k)\b`),
	regexp.MustCompile(`(?i)\b(?:hdr10|dolby[\s\-]?vision|dv|hdr|sdr)\b`),
	regexp.MustCompile(`(?i)\b(?:webrip|web\-?dl|bluray|b[dr]rip|hdtv|dvdrip|dvdscr|cam|h?dcam|r[56])\b`),
	regexp.MustCompile(`(?i)\b(?:x264|x265|h264|h265|hevc|av1|xvid|divx)\b`),
	regexp.MustCompile(`(?i)\b(?:yts|yify|rarbg|evo|etrg|spark[s]?|amiable|ntb|tge|ctrlhd|fg[t]?|galaxyrg)\b`),
	regexp.MustCompile(`(?i)\b(?:proper|real|repack|extended|unrated|directors\.? cut|remastered|imax)\b`),
	regexp.MustCompile(`(?i)\b(?:multi(?:lang)?|dubbed?|subbed?)\b`),
	regexp.MustCompile(`(?i)\b(?:aac|dts(?:\-hd)?|truehd|atmos|ddp?[\- ]?\d\.\d)\b`),
	regexp.MustCompile(`(?i)\b(?:sample)\b`),
	regexp.MustCompile(`(?i)\[(?:.*?)\]|\((?:sample)\)`),
}

var (
	separatorPattern = regexp.MustCompile(`[._]+`)
	yearPattern      = regexp.MustCompile(`18[89][0-9]|19[0-9]{2}|20[0-9]{2}`)
	episodePattern   = regexp.MustCompile(`[Ss]([0-9]{1,2})[ ._-]?[Ee]([0-9]{1,3})`)
	crossPattern     = regexp.MustCompile(`([0-9]{1,2})x([0-9]{1,2})`)
	pureYearPattern  = regexp.MustCompile(`^(?:18[89][0-9]|19[0-9]{2}|20[0-9]{2})$`)
	letterPattern    = regexp.MustCompile(`[A-Za-z]`)
)

// SplitStemYear extracts a clean title and an optional year from a filename
// stem. Dot/underscore runs become spaces, noise tokens are stripped, and the
// last year-like token in 1880–2099 wins; the title is truncated at that
// token. A stem that cleans down to nothing is returned unmodified with year
// 0, so the caller never sees an empty title.
func SplitStemYear(stem string) (string, int) {
	s := separatorPattern.ReplaceAllString(stem, " ")
	for _, pattern := range noisePatterns {
		s = pattern.ReplaceAllString(s, " ")
	}
	s = textutil.CollapseWhitespace(s)

	year := lastBoundedYear(s)
	title := s
	if year > 0 {
		if idx := strings.LastIndex(s, strconv.Itoa(year)); idx >= 0 {
			title = strings.TrimSpace(strings.Trim(s[:idx], " -._()[]{}"))
		}
	}
	if title == "" {
		return stem, 0
	}
	return title, year
}

// lastBoundedYear finds the final year token with non-digit boundaries.
func lastBoundedYear(s string) int {
	matches := yearPattern.FindAllStringIndex(s, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		if start > 0 && isDigit(s[start-1]) {
			continue
		}
		if end < len(s) && isDigit(s[end]) {
			continue
		}
		year, err := strconv.Atoi(s[start:end])
		if err != nil {
			continue
		}
		return year
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParseEpisodeTag recognizes SxxEyy (1-2 digit season, 1-3 digit episode)
// first, then NxM notation. It runs on the raw stem so digits inside codec
// tags stripped later cannot be mistaken for episode numbers.
func ParseEpisodeTag(name string) (season, episode int, ok bool) {
	if m := episodePattern.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode, true
	}
	if m := crossPattern.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode, true
	}
	return 0, 0, false
}

// basicTruncatePattern chops everything from the first structural token
// onward: episode tag, year, or a well-known release marker.
var basicTruncatePattern = regexp.MustCompile(`(?i)\b(S[0-9]+E[0-9]+|[0-9]+x[0-9]+|(19|20)[0-9]{2}|480p|720p|1080p|2160p|WEB[-.]DL|BluRay|HDR|x264|x265)\b.*`)

var (
	basicIllegalPattern = regexp.MustCompile(`[\\/:*?"<>|]`)
	basicYearPattern    = regexp.MustCompile(`\b(19|20)[0-9]{2}\b`)
)

// ParseBasic is the secondary tokenizer used by the series fallback chain: it
// truncates the stem at the first structural token rather than scrubbing
// noise in place, which recovers titles the primary pass mangles.
func ParseBasic(path string) (title string, year, season, episode int) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if m := basicYearPattern.FindString(base); m != "" {
		year, _ = strconv.Atoi(m)
	}
	season, episode, _ = ParseEpisodeTag(base)

	cleaned := basicTruncatePattern.ReplaceAllString(base, "")
	cleaned = basicIllegalPattern.ReplaceAllString(cleaned, "")
	title = textutil.CollapseWhitespace(separatorPattern.ReplaceAllString(cleaned, " "))
	if title == "" {
		title = "Unknown"
	}
	return title, year, season, episode
}

var (
	hintBracketPattern = regexp.MustCompile(`[\(\[][^)\]]{0,12}[\)\]]`)
	hintJunkPattern    = regexp.MustCompile(`(?i)\b(1080p|2160p|720p|4k|webrip|web[- ]?dl|bluray|b[dr]rip|hdtv|x26[45]|h26[45]|hevc|av1|hdr10?|dv|sdr|multi|dubbed|subbed)\b`)
)

// NormalizeShowHint cleans an operator-supplied or directory-derived show
// name candidate: separators to spaces, short bracket groups and junk tokens
// removed, whitespace collapsed.
func NormalizeShowHint(s string) string {
	s = separatorPattern.ReplaceAllString(s, " ")
	s = hintBracketPattern.ReplaceAllString(s, " ")
	s = hintJunkPattern.ReplaceAllString(s, " ")
	return textutil.CollapseWhitespace(s)
}

// IsPureYear reports whether the query title is nothing but a 4-digit year, a
// degenerate case where title similarity carries no signal.
func IsPureYear(s string) bool {
	return pureYearPattern.MatchString(strings.TrimSpace(s))
}

// HasLetter reports whether s contains at least one ASCII letter; candidates
// without any are useless as search queries.
func HasLetter(s string) bool {
	return letterPattern.MatchString(s)
}

var seasonDirPattern = regexp.MustCompile(`(?i)\bseason\b|\bseizoen\b`)

// SeasonFolderParent returns the grandparent directory when the file sits in
// a season folder ("Season 02", "Seizoen 1", ...), which usually carries the
// authoritative show name. Returns "" otherwise.
func SeasonFolderParent(path string) string {
	parent := filepath.Dir(path)
	if parent != "" && seasonDirPattern.MatchString(filepath.Base(parent)) {
		return filepath.Dir(parent)
	}
	return ""
}
