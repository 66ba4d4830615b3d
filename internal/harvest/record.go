package harvest

import (
	"sort"
	"strings"
)

// Record holds the contact details collected for one candidate site. It is
// built up page by page during a harvest and handed back to the caller once
// the run finishes; it is never shared between sites.
type Record struct {
	// SourcePage is the URL the data was most recently attributed to.
	// Diagnostic only; merge rules do not depend on it.
	SourcePage  string   `json:"source_page"`
	CompanyName string   `json:"company_name,omitempty"`
	Emails      []string `json:"emails"`
	Phones      []string `json:"phones"`
	Address     string   `json:"address,omitempty"`
}

// Merge folds another partial record into r. Emails and phones are combined
// as sets; company name and address keep the first non-empty value seen, so
// page visitation order decides which singular value wins.
func (r *Record) Merge(other Record) {
	r.Emails = unionSorted(r.Emails, other.Emails)
	r.Phones = unionSorted(r.Phones, other.Phones)
	if r.CompanyName == "" {
		r.CompanyName = other.CompanyName
	}
	if r.Address == "" {
		r.Address = other.Address
	}
}

// Complete reports whether every field has been populated. The harvester
// stops visiting pages once a record is complete.
func (r *Record) Complete() bool {
	return r.CompanyName != "" && r.Address != "" && len(r.Emails) > 0 && len(r.Phones) > 0
}

// unionSorted merges two string sets into a sorted slice with no duplicates
// and no empty members.
func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		if s != "" {
			seen[s] = struct{}{}
		}
	}
	for _, s := range b {
		if s != "" {
			seen[s] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// dedupeSorted normalizes a slice into set form: trimmed, no empties, no
// duplicates, sorted for deterministic output.
func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
