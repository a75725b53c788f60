package textutil

import (
	"regexp"
	"strings"
)

// punctPattern matches punctuation stripped before tokenization. Word
// characters and whitespace survive.
var punctPattern = regexp.MustCompile(`[^\w\s]`)

// Tokenize lowercases text, strips punctuation, and splits on whitespace.
func Tokenize(text string) []string {
	cleaned := punctPattern.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	return fields
}

// Jaccard computes token-set overlap between two strings: the size of the
// token intersection over the size of the union. Either side tokenizing to
// nothing yields 0.
func Jaccard(a, b string) float64 {
	setA := tokenSet(Tokenize(a))
	setB := tokenSet(Tokenize(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
