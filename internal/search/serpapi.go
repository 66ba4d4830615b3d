package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIClient queries Google through the SerpAPI proxy. Only organic
// results are read; ads and knowledge panels are ignored.
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpAPIClient builds a client. The API key is mandatory.
func NewSerpAPIClient(apiKey string) (*SerpAPIClient, error) {
	if apiKey == "" {
		return nil, errors.New("serpapi: api key is not set")
	}
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: serpAPIBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Search runs one query and returns up to num organic results.
func (c *SerpAPIClient) Search(ctx context.Context, query, location string, num int) ([]Result, error) {
	if num < 1 {
		num = 1
	}
	if num > 100 {
		num = 100
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(num))
	params.Set("hl", "en")
	if location != "" {
		params.Set("location", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		OrganicResults []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Position int    `json:"position"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}

	results := make([]Result, 0, len(payload.OrganicResults))
	for _, item := range payload.OrganicResults {
		results = append(results, Result{
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: item.Position,
		})
	}
	return results, nil
}

var _ Searcher = (*SerpAPIClient)(nil)
