// Package spotify wraps the Spotify Web API search surface used for track
// collection: client-credentials auth plus paginated track search.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuthURL = "https://accounts.spotify.com/api/token"
	defaultAPIURL  = "https://api.spotify.com/v1"

	// PageSize is the fixed number of items requested per search page.
	PageSize = 50
)

// Client is a minimal Web API client. It is not safe for concurrent use;
// collection is sequential by design.
type Client struct {
	httpClient       *http.Client
	clientID         string
	clientSecret     string
	authURL          string
	apiURL           string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration

	token       string
	tokenExpiry time.Time
}

// NewClient builds a client from the two credential values supplied via the
// environment at startup.
func NewClient(clientID, clientSecret string) *Client {
	return NewClientWithOptions(clientID, clientSecret, 30*time.Second, 3, 500*time.Millisecond, 4*time.Second)
}

// NewClientWithOptions allows customizing HTTP timeout and retry/backoff behavior.
func NewClientWithOptions(clientID, clientSecret string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		clientID:         clientID,
		clientSecret:     clientSecret,
		authURL:          defaultAuthURL,
		apiURL:           defaultAPIURL,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// NewClientWithBaseURLs allows injecting custom endpoints (used in tests).
func NewClientWithBaseURLs(clientID, clientSecret, authURL, apiURL string) *Client {
	c := NewClientWithOptions(clientID, clientSecret, 5*time.Second, 3, 10*time.Millisecond, 100*time.Millisecond)
	if authURL != "" {
		c.authURL = authURL
	}
	if apiURL != "" {
		c.apiURL = apiURL
	}
	return c
}

// Artist is the subset of artist metadata the collector needs.
type Artist struct {
	Name string `json:"name"`
}

// Album carries the release date string; the first four characters are the
// release year.
type Album struct {
	ReleaseDate string `json:"release_date"`
}

// Track is one search result item.
type Track struct {
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"duration_ms"`
	Album      Album    `json:"album"`
}

// PrimaryArtist returns the first listed artist name, or "" when absent.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// ReleaseYear parses the release year from the album release-date metadata.
// It returns 0 when the date is missing or unparseable.
func (t Track) ReleaseYear() int {
	d := t.Album.ReleaseDate
	if len(d) < 4 {
		return 0
	}
	y, err := strconv.Atoi(d[:4])
	if err != nil {
		return 0
	}
	return y
}

// SearchPage is one page of track search results.
type SearchPage struct {
	Tracks []Track
	Total  int
}

type searchResponse struct {
	Tracks struct {
		Items []Track `json:"items"`
		Total int     `json:"total"`
	} `json:"tracks"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken fetches or refreshes the client-credentials access token.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}
	if c.clientID == "" || c.clientSecret == "" {
		return errors.New("SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET are missing")
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnreachableError{Host: c.authURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp, "token request failed")
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("token response missing access_token")
	}
	c.token = tok.AccessToken
	// Refresh slightly early so in-flight searches never race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return nil
}

// Search issues one paginated track search request. Retries on 429/5xx with
// exponential backoff, honoring Retry-After when the provider sends one.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*SearchPage, error) {
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}
	if limit <= 0 || limit > PageSize {
		limit = PageSize
	}
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":      {query},
		"type":   {"track"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	endpoint := c.apiURL + "/search?" + params.Encode()

	maxAttempts := c.retryMaxAttempts
	backoff := c.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < maxAttempts {
				lastErr = &UnreachableError{Host: c.apiURL, Err: err}
				time.Sleep(withJitter(backoff, c.retryMaxDelay))
				backoff *= 2
				continue
			}
			return nil, &UnreachableError{Host: c.apiURL, Err: err}
		}
		page, retryable, err := c.readSearchResponse(resp)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retryable || attempt >= maxAttempts {
			break
		}
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			time.Sleep(rl.RetryAfter)
			continue
		}
		time.Sleep(withJitter(backoff, c.retryMaxDelay))
		backoff *= 2
	}
	return nil, lastErr
}

// readSearchResponse decodes one HTTP response into a page, reporting whether
// a failure is worth retrying.
func (c *Client) readSearchResponse(resp *http.Response) (*SearchPage, bool, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := classifyStatus(resp, "")
		retryable := resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)
		// A 401 after token issuance means the token expired server-side;
		// drop it so the next attempt re-authenticates.
		if resp.StatusCode == http.StatusUnauthorized {
			c.token = ""
		}
		return nil, retryable, err
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return &SearchPage{Tracks: out.Tracks.Items, Total: out.Tracks.Total}, false, nil
}

// classifyStatus maps a non-2xx response to a typed error.
func classifyStatus(resp *http.Response, fallbackMsg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallbackMsg}
	var raw struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &raw); err == nil {
		if raw.Error.Message != "" {
			apiErr.Message = raw.Error.Message
		} else if raw.ErrorDescription != "" {
			apiErr.Message = raw.ErrorDescription
		}
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case resp.StatusCode == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case resp.StatusCode == http.StatusBadRequest:
		return &BadRequestError{APIError: apiErr}
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

// withJitter returns a backoff duration with +/- 20% jitter, capped at max.
func withJitter(d, max time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if max > 0 && out > max {
		out = max
	}
	return out
}
