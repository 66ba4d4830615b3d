// Package search finds candidate supplier websites through external search
// providers and filters the raw results down to individual company sites.
package search

import "context"

// Result is a single organic search hit.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// Searcher abstracts a search-engine provider.
type Searcher interface {
	Search(ctx context.Context, query, location string, num int) ([]Result, error)
}
