// Package unsplash provides a rate-limited Unsplash search API client.
package unsplash

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
)

const (
	apiHost = "api.unsplash.com"

	// The demo tier allows 50 requests per hour; stay under it and let the
	// cache absorb the rest.
	defaultRPS   = 50.0 / 3600
	defaultBurst = 5

	defaultTimeout = 30 * time.Second

	// Search parameters matching the post editor's picker.
	searchPerPage     = 10
	searchOrientation = "landscape"
	searchOrderBy     = "relevant"
)

// Errors returned by the client.
var (
	ErrUnauthorized = errors.New("unsplash: invalid access key")
	ErrRateLimited  = errors.New("unsplash: rate limited")
	ErrServer       = errors.New("unsplash: server error")
)

// Client is a rate-limited Unsplash API client.
type Client struct {
	accessKey string
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	logger    *slog.Logger

	// baseURL overrides the API host in tests.
	baseURL string
}

// New creates a new Unsplash client.
func New(accessKey string, logger *slog.Logger) *Client {
	return &Client{
		accessKey: accessKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: "https://" + apiHost,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// SetBaseURL points the client at a different API host. Tests use this to
// target a local server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SearchPhotos runs a landscape-oriented relevance search and returns the
// first page of results.
func (c *Client) SearchPhotos(ctx context.Context, query string) ([]*PhotoResult, error) {
	if err := c.limiter.Wait(ctx, "search"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(searchPerPage))
	params.Set("orientation", searchOrientation)
	params.Set("order_by", searchOrderBy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	c.logger.Debug("unsplash request", "query", query)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]*PhotoResult, 0, len(parsed.Results))
	for _, p := range parsed.Results {
		r := p.toResult()
		results = append(results, &r)
	}
	return results, nil
}
