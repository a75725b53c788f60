package textutil

import (
	"regexp"
	"strings"
)

// illegalPattern matches characters that are invalid in path components on the
// most restrictive supported filesystem (Windows), including control bytes.
var illegalPattern = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// reservedNames are device names Windows refuses as path components regardless
// of extension.
var reservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizeComponent rewrites a single path component so it is legal on every
// supported filesystem: illegal characters become spaces, whitespace runs
// collapse, trailing periods are stripped, and reserved device names get an
// underscore suffix. The result never ends in a separator or period.
// SanitizeComponent is idempotent.
func SanitizeComponent(name string) string {
	name = illegalPattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(whitespacePattern.ReplaceAllString(name, " "))
	name = strings.TrimRight(name, ".")
	if _, reserved := reservedNames[strings.ToLower(name)]; reserved {
		name += "_"
	}
	return name
}

// CollapseWhitespace replaces whitespace runs with single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
