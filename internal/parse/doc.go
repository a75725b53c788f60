// Package parse extracts a title/year/season/episode signal from noisy
// release filenames.
//
// Two tokenizers exist on purpose: SplitStemYear scrubs a fixed noise library
// in place and keys off the last bounded year token, while ParseBasic
// truncates at the first structural token. The series fallback chain tries
// both, because each recovers titles the other mangles. Episode tags are
// always read from the raw stem so noise stripping cannot eat their digits.
package parse
