package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleCSEClient is an alternate provider backed by the Google Custom
// Search JSON API. The engine (cx) must be configured for web-wide search.
type GoogleCSEClient struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleCSEClient builds a Custom Search client with an API key.
func NewGoogleCSEClient(ctx context.Context, apiKey, cx string) (*GoogleCSEClient, error) {
	if apiKey == "" || cx == "" {
		return nil, errors.New("google cse: api key and cx are required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google cse: create service: %w", err)
	}
	return &GoogleCSEClient{svc: svc, cx: cx}, nil
}

// Search runs one query. The Custom Search API caps a single call at ten
// results; callers wanting more issue more queries. Location has no
// dedicated parameter, so it is folded into the query text.
func (c *GoogleCSEClient) Search(ctx context.Context, query, location string, num int) ([]Result, error) {
	if num < 1 {
		num = 1
	}
	if num > 10 {
		num = 10
	}
	if location != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(location)) {
		query = query + " " + location
	}

	resp, err := c.svc.Cse.List().Context(ctx).Q(query).Cx(c.cx).Num(int64(num)).Do()
	if err != nil {
		return nil, fmt.Errorf("google cse: search failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for i, item := range resp.Items {
		results = append(results, Result{
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: i + 1,
		})
	}
	return results, nil
}

var _ Searcher = (*GoogleCSEClient)(nil)
