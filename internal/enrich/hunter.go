// Package enrich supplements harvested contact records from external data
// sources. Enrichment is best-effort; a failed lookup only means no extra
// data, never a failed run.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const hunterBaseURL = "https://api.hunter.io/v2/domain-search"

// Enricher looks up extra email addresses for a company domain. The caller
// merges the result into the harvested record's email set by plain union.
type Enricher interface {
	DomainEmails(ctx context.Context, domain string, limit int) ([]string, error)
}

// HunterClient queries the Hunter.io domain-search endpoint.
type HunterClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHunterClient builds a client. An empty key yields a client whose
// lookups return nothing, so callers do not need a separate no-op path.
func NewHunterClient(apiKey string) *HunterClient {
	return &HunterClient{
		apiKey:  apiKey,
		baseURL: hunterBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// DomainEmails returns up to limit addresses known for the domain.
func (c *HunterClient) DomainEmails(ctx context.Context, domain string, limit int) ([]string, error) {
	if c.apiKey == "" || domain == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 10
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("hunter: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hunter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hunter: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Emails []struct {
				Value string `json:"value"`
			} `json:"emails"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("hunter: decode response: %w", err)
	}

	emails := make([]string, 0, len(payload.Data.Emails))
	for _, e := range payload.Data.Emails {
		if e.Value != "" {
			emails = append(emails, e.Value)
		}
	}
	return emails, nil
}

var _ Enricher = (*HunterClient)(nil)
