// Package search talks to the external event-catalog service and applies the
// widening fallback policy on top of it.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evebot-core/server/internal/assistant/model"
	errx "github.com/evebot-core/server/internal/core/error"
)

// Config binds the catalog service connection from the environment.
type Config struct {
	BaseURL string `envconfig:"CATALOG_BASE_URL" required:"true"`
	APIKey  string `envconfig:"CATALOG_API_KEY"`
	Timeout int    `envconfig:"CATALOG_TIMEOUT" default:"10"`
}

// Filter is the structured criteria sent to the catalog search endpoint.
type Filter struct {
	Query      string
	Location   string
	TimeFilter model.TimeFilter
}

// Catalog is the external event-catalog capability consumed by the
// orchestrator. Implementations return results in catalog order.
type Catalog interface {
	Search(ctx context.Context, f Filter) ([]model.EventSummary, error)
	Trending(ctx context.Context) ([]model.EventSummary, error)
}

// Client is the HTTP catalog client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a catalog client with a bounded per-call timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientFromConfig builds the client from env-bound configuration.
func NewClientFromConfig(cfg Config) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, time.Duration(cfg.Timeout)*time.Second)
}

// Search queries the catalog with the given filter. The time filter is
// omitted from the request when it is "all" so the catalog searches across
// all time.
func (c *Client) Search(ctx context.Context, f Filter) ([]model.EventSummary, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.TimeFilter != "" && f.TimeFilter != model.TimeFilterAll {
		q.Set("time", string(f.TimeFilter))
	}

	endpoint := c.baseURL + "/api/v1/events/search"
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return c.getEvents(ctx, endpoint)
}

// Trending returns the catalog's currently trending events.
func (c *Client) Trending(ctx context.Context) ([]model.EventSummary, error) {
	return c.getEvents(ctx, c.baseURL+"/api/v1/events/trending")
}

func (c *Client) getEvents(ctx context.Context, endpoint string) ([]model.EventSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.WrapDependency(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errx.WrapDependency(fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var events []model.EventSummary
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, errx.WrapDependency(fmt.Errorf("decode catalog response: %w", err))
	}
	return events, nil
}

var _ Catalog = (*Client)(nil)
