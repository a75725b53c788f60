package render

import (
	"fmt"
	"regexp"
	"strings"

	"reelsort/internal/textutil"
)

// Context carries every value a path template can reference.
type Context struct {
	Name         string
	Year         int
	Season       int
	Episode      int
	EpisodeTitle string
}

// NY renders the "Title (Year)" form, degrading to the bare title when the
// year is unknown.
func (c Context) NY() string {
	if c.Year > 0 {
		return fmt.Sprintf("%s (%d)", c.Name, c.Year)
	}
	return c.Name
}

// SxxEyy renders the zero-padded episode tag, or "" when neither number is
// known.
func (c Context) SxxEyy() string {
	if c.Season == 0 && c.Episode == 0 {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", c.Season, c.Episode)
}

// pad2 renders a numeric field zero-padded to two digits, or "" when the
// field is absent.
func pad2(v int) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%02d", v)
}

var (
	trailingSeparators = regexp.MustCompile(`[ \-._]+$`)
	emptyParens        = regexp.MustCompile(`\(\s*\)`)
)

// Render expands a path template against ctx and returns clean, sanitized
// path components. Placeholders:
//
//	{n}       title or show name
//	{y}       year ("" when unknown)
//	{ny}      "{n} ({y})", year omitted when unknown
//	{s}       season number, two digits ("" when unknown)
//	{e}       episode number, two digits ("" when unknown)
//	{s00e00}  zero-padded SxxEyy tag ("" when unknown)
//	{t}       episode title ("" when unknown)
//
// The template is split on slashes before expansion, so a placeholder value
// can never introduce extra directory levels. Each component is scrubbed of
// empty parentheses left by a missing year, stripped of trailing separator
// runs, and sanitized for the filesystem; a component that sanitizes down to
// nothing becomes "_" so the path keeps its shape.
func Render(template string, ctx Context) ([]string, error) {
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("empty path template")
	}
	year := ""
	if ctx.Year > 0 {
		year = fmt.Sprintf("%d", ctx.Year)
	}
	replacer := strings.NewReplacer(
		"{n}", ctx.Name,
		"{y}", year,
		"{ny}", ctx.NY(),
		"{s}", pad2(ctx.Season),
		"{e}", pad2(ctx.Episode),
		"{s00e00}", ctx.SxxEyy(),
		"{t}", ctx.EpisodeTitle,
	)
	// Split before expanding so a slash inside a placeholder value is
	// sanitized away instead of introducing extra directory levels.
	var components []string
	for _, part := range strings.FieldsFunc(template, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		components = append(components, cleanComponent(replacer.Replace(part)))
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("template %q produced no components", template)
	}
	return components, nil
}

func cleanComponent(part string) string {
	part = emptyParens.ReplaceAllString(part, "")
	part = textutil.CollapseWhitespace(part)
	part = trailingSeparators.ReplaceAllString(part, "")
	part = textutil.SanitizeComponent(part)
	if part == "" {
		return "_"
	}
	return part
}
