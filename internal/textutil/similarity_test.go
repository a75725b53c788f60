package textutil

import (
	"math"
	"testing"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "The Matrix", b: "The Matrix", want: 1.0},
		{name: "case and punctuation ignored", a: "the matrix!", b: "The. Matrix", want: 1.0},
		{name: "disjoint", a: "Alien", b: "Heat", want: 0},
		{name: "partial overlap", a: "blade runner", b: "blade runner 2049", want: 2.0 / 3.0},
		{name: "empty left", a: "", b: "Heat", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "punctuation only", a: "!!!", b: "Heat", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Jaccard(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Jaccard(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "illegal chars become spaces", input: `Alien: Covenant`, want: "Alien Covenant"},
		{name: "whitespace collapsed", input: "A   B\tC", want: "A B C"},
		{name: "trailing period stripped", input: "Adaptation.", want: "Adaptation"},
		{name: "reserved name suffixed", input: "CON", want: "CON_"},
		{name: "reserved name case-insensitive", input: "com3", want: "com3_"},
		{name: "plain name unchanged", input: "The Matrix (1999)", want: "The Matrix (1999)"},
		{name: "control bytes removed", input: "bad\x01name", want: "bad name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeComponent(tc.input); got != tc.want {
				t.Fatalf("SanitizeComponent(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeComponentIdempotent(t *testing.T) {
	inputs := []string{
		`Movie: The "Best" One?`,
		"CON",
		"trailing...",
		"  spaced   out  ",
		"",
		`a\b/c|d`,
	}
	for _, input := range inputs {
		once := SanitizeComponent(input)
		twice := SanitizeComponent(once)
		if once != twice {
			t.Errorf("SanitizeComponent not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
