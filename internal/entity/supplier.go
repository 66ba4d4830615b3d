package entity

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is one manufacturing company surfaced by a finder run, keyed by
// its registrable website domain.
type Supplier struct {
	ID           uuid.UUID  `json:"id"`
	RunID        *uuid.UUID `json:"run_id,omitempty"`
	Name         string     `json:"name"`
	Domain       string     `json:"domain"`
	Website      string     `json:"website"`
	Address      *string    `json:"address,omitempty"`
	Emails       []string   `json:"emails"`
	Phones       []string   `json:"phones"`
	CertEvidence *string    `json:"cert_evidence,omitempty"`
	SourcePage   *string    `json:"source_page,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
