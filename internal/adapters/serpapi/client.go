// Package serpapi fetches Google Maps business listings through the SerpAPI
// search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"prospector/internal/domain"
)

const defaultBaseURL = "https://serpapi.com/search"

type Client struct {
	hc      *http.Client
	limiter *rate.Limiter
	apiKey  string
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the SerpAPI endpoint, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "serpapi" }

type localResult struct {
	Title   string  `json:"title"`
	PlaceID string  `json:"place_id"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Website string  `json:"website"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
	Type    string  `json:"type"`
}

type searchResponse struct {
	LocalResults []localResult `json:"local_results"`
}

// Fetch issues one google_maps search and maps up to limit local results.
// Any transport or non-2xx failure surfaces as a *domain.ProviderError; the
// caller fails the enclosing job and does not retry.
func (c *Client) Fetch(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ProviderError{Provider: c.Name(), Err: err}
	}

	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("type", "search")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: c.Name(), Err: err}
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: c.Name(), Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &domain.ProviderError{Provider: c.Name(), Err: fmt.Errorf("request failed: %s", res.Status)}
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, &domain.ProviderError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	results := sr.LocalResults
	if len(results) > limit {
		results = results[:limit]
	}
	listings := make([]domain.Listing, 0, len(results))
	for _, r := range results {
		listings = append(listings, domain.Listing{
			Title:       r.Title,
			PlaceID:     r.PlaceID,
			Address:     r.Address,
			Phone:       r.Phone,
			Website:     r.Website,
			Rating:      r.Rating,
			ReviewCount: r.Reviews,
			Category:    r.Type,
		})
	}
	return listings, nil
}
