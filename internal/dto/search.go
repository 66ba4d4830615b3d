package dto

// FindSuppliersRequest is the payload for a supplier finder run.
type FindSuppliersRequest struct {
	Commodity     string `json:"commodity"`
	Region        string `json:"region"`
	Certification string `json:"certification"`
	// MaxResults bounds the total search hits scanned across all queries.
	MaxResults int `json:"max_results,omitempty"`
	// RegionHint is the ISO country code used to canonicalize phone
	// numbers; defaults to the service-wide setting.
	RegionHint string `json:"region_hint,omitempty"`
}

// PromptSearchRequest carries a free-form supplier prompt such as
// "injection molding suppliers in Coimbatore with ISO 9001".
type PromptSearchRequest struct {
	Prompt     string `json:"prompt"`
	MaxResults int    `json:"max_results,omitempty"`
	RegionHint string `json:"region_hint,omitempty"`
}
