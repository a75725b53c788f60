package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	maxRetries         = 5
	defaultBackoffBase = 500 * time.Millisecond
	defaultPacing      = 250 * time.Millisecond
	retryAfterFloor    = time.Second
	requestTimeout     = 20 * time.Second
)

// StatusError reports a non-retryable HTTP failure from the metadata service.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d", e.Path, e.Code)
}

// Client provides resilient access to the TMDB API. Every read is a
// parameterized GET carrying the configured language; transient failures are
// retried with exponential backoff, outbound requests are paced, and
// responses are memoized for the life of the client.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	backoff    time.Duration
	pacing     time.Duration

	mu       sync.Mutex
	lastCall time.Time
	cache    map[string][]byte
	cfg      *Configuration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBackoff overrides the retry backoff base (tests).
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithPacing overrides the minimum spacing between outbound requests (tests).
func WithPacing(d time.Duration) Option {
	return func(c *Client) { c.pacing = d }
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: requestTimeout},
		backoff:    defaultBackoffBase,
		pacing:     defaultPacing,
		cache:      make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches movies by free-text query with an optional release
// year filter (0 means unfiltered).
func (c *Client) SearchMovie(ctx context.Context, query string, year int) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	var payload movieResponse
	if err := c.getJSON(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// SearchTV searches series by free-text query with an optional first-air
// year filter (0 means unfiltered).
func (c *Client) SearchTV(ctx context.Context, query string, year int) ([]Series, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	var payload seriesResponse
	if err := c.getJSON(ctx, "/search/tv", params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// GetEpisode fetches one episode's metadata.
func (c *Client) GetEpisode(ctx context.Context, seriesID int64, season, episode int) (*Episode, error) {
	if seriesID <= 0 {
		return nil, errors.New("series id must be positive")
	}
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", seriesID, season, episode)
	var payload Episode
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetSeasonDetails fetches the full season payload, episodes included.
func (c *Client) GetSeasonDetails(ctx context.Context, seriesID int64, season int) (*SeasonDetails, error) {
	if seriesID <= 0 {
		return nil, errors.New("series id must be positive")
	}
	path := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)
	var payload SeasonDetails
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieVideos lists the video entries attached to a movie.
func (c *Client) MovieVideos(ctx context.Context, movieID int64) ([]Video, error) {
	return c.videos(ctx, fmt.Sprintf("/movie/%d/videos", movieID))
}

// TVVideos lists the video entries attached to a series.
func (c *Client) TVVideos(ctx context.Context, seriesID int64) ([]Video, error) {
	return c.videos(ctx, fmt.Sprintf("/tv/%d/videos", seriesID))
}

func (c *Client) videos(ctx context.Context, path string) ([]Video, error) {
	params := url.Values{}
	params.Set("include_video_language", "en,null")
	var payload videoResponse
	if err := c.getJSON(ctx, path, params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// Configuration fetches the service configuration document, once per client.
func (c *Client) Configuration(ctx context.Context) (*Configuration, error) {
	c.mu.Lock()
	cached := c.cfg
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	var payload Configuration
	if err := c.getJSON(ctx, "/configuration", url.Values{}, &payload); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cfg = &payload
	c.mu.Unlock()
	return &payload, nil
}

// PosterURL resolves a poster path to a fully-qualified image URL for the
// requested size token, falling back to the nearest available size when the
// exact request is unsupported.
func (c *Client) PosterURL(ctx context.Context, posterPath, size string) (string, error) {
	if strings.TrimSpace(posterPath) == "" {
		return "", errors.New("poster path empty")
	}
	cfg, err := c.Configuration(ctx)
	if err != nil {
		return "", err
	}
	base := cfg.Images.SecureBaseURL
	sizes := cfg.Images.PosterSizes
	if len(sizes) == 0 {
		sizes = []string{"w500", "original"}
	}
	target := ""
	for _, s := range sizes {
		if s == size {
			target = s
			break
		}
	}
	if target == "" {
		if len(sizes) >= 2 {
			target = sizes[len(sizes)-2]
		} else {
			target = sizes[len(sizes)-1]
		}
	}
	return base + target + posterPath, nil
}

// Language returns the configured locale preference.
func (c *Client) Language() string { return c.language }

// getJSON performs a paced, retried GET and decodes the response, memoizing
// successful bodies by path+query so repeated fallback lookups within one run
// stay off the network.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if c.language != "" {
		params.Set("language", c.language)
	}
	cacheKey := path + "?" + params.Encode()

	c.mu.Lock()
	body, ok := c.cache[cacheKey]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(body, out)
	}

	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	body, err := c.fetch(ctx, path, endpoint)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache[cacheKey] = body
	c.mu.Unlock()
	return json.Unmarshal(body, out)
}

var retryableStatus = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

func (c *Client) fetch(ctx context.Context, path, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			if retryAfter, ok := retryAfterHint(lastErr); ok && retryAfter > wait {
				wait = retryAfter
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
		}
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("execute request: %w", err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if readErr != nil {
				lastErr = fmt.Errorf("read response: %w", readErr)
				continue
			}
			return body, nil
		}
		if _, retryable := retryableStatus[resp.StatusCode]; retryable {
			lastErr = &transientError{
				status:     resp.StatusCode,
				path:       path,
				retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
			continue
		}
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}
	return nil, fmt.Errorf("tmdb %s: retries exhausted: %w", path, lastErr)
}

// transientError carries the Retry-After hint between attempts.
type transientError struct {
	status     int
	path       string
	retryAfter time.Duration
}

func (e *transientError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d", e.path, e.status)
}

func retryAfterHint(err error) (time.Duration, bool) {
	var transient *transientError
	if errors.As(err, &transient) && transient.status == http.StatusTooManyRequests {
		if transient.retryAfter > 0 {
			return transient.retryAfter, true
		}
		return retryAfterFloor, true
	}
	return 0, false
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d < retryAfterFloor {
			return retryAfterFloor
		}
		return d
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > retryAfterFloor {
			return d
		}
		return retryAfterFloor
	}
	return 0
}

// pace enforces the minimum spacing between consecutive outbound calls.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.pacing - time.Since(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = time.Now().Add(wait)
	c.mu.Unlock()
	if wait == 0 {
		return nil
	}
	return sleepCtx(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
