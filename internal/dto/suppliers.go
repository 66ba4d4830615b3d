package dto

import "github.com/google/uuid"

// ListFilter contains query parameters for supplier listing endpoints.
type ListFilter struct {
	Q       string
	Domain  string
	RunID   *uuid.UUID
	Page    int
	PerPage int
}
