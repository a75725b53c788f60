// Package match turns parsed filename facts into a catalog identity.
//
// Candidates from the catalog are ranked by a weighted composite of token-set
// title similarity, year proximity, and clamped popularity; separate weight
// profiles exist for movies and series and an acceptance gate rejects weak
// best candidates outright. The Resolver layers lookup strategy on top of the
// scorer: a year-filtered movie search with an unfiltered retry, and for
// series a fallback chain of show name guesses drawn from the filename and
// the surrounding directory structure.
package match
