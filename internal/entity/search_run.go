package entity

import (
	"time"

	"github.com/google/uuid"
)

// SearchRun records one execution of the supplier finder pipeline.
type SearchRun struct {
	ID            uuid.UUID  `json:"id"`
	Commodity     string     `json:"commodity"`
	Region        string     `json:"region"`
	Certification string     `json:"certification"`
	MaxResults    int        `json:"max_results"`
	SitesScraped  int        `json:"sites_scraped"`
	SuppliersKept int        `json:"suppliers_kept"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
