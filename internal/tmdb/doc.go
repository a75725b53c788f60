// Package tmdb provides the resilient TMDB API client every lookup depends
// on.
//
// It exposes movie and TV search with optional year filters, episode and
// season detail lookups, video listings, and poster URL resolution via the
// one-time-cached service configuration. Transient failures (429 and 5xx) are
// retried up to five times with exponential backoff, a 429 honors the
// server's Retry-After with a sane floor, outbound requests are paced to
// avoid triggering rate limits in the first place, and successful responses
// are memoized so repeated directory-fallback lookups within one run stay off
// the network. Options let tests supply custom HTTP clients and shrink the
// retry timings.
package tmdb
