package scoring

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	categoryContact  = "contact_completeness"
	categoryProfile  = "company_profile"
	categoryWebsite  = "website_quality"
	categoryEvidence = "cert_evidence"
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"medium.com",
	"substack.com",
	"godaddysites.com",
	"notion.site",
	"googlepages.com",
}

// SupplierSignals captures the harvested fields used for confidence scoring.
type SupplierSignals struct {
	Name         string
	Emails       []string
	Phones       []string
	Address      string
	Website      string
	SourcePage   string
	CertEvidence string
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// ComputeScore evaluates the provided signals and returns the score
// breakdown. Totals stay within 0..100 so rows from different runs compare
// directly.
func ComputeScore(input SupplierSignals) ScoreResult {
	breakdown := map[string]int{
		categoryContact:  scoreContactCompleteness(input),
		categoryProfile:  scoreCompanyProfile(input),
		categoryWebsite:  scoreWebsiteQuality(input),
		categoryEvidence: scoreCertEvidence(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContactCompleteness(input SupplierSignals) int {
	score := 0
	if hasValue(input.Emails) {
		score += 20
	}
	if hasValue(input.Phones) {
		score += 15
	}
	if len(input.Emails) > 1 {
		score += 5
	}
	if score > 40 {
		return 40
	}
	return score
}

func scoreCompanyProfile(input SupplierSignals) int {
	score := 0
	if strings.TrimSpace(input.Name) != "" {
		score += 10
	}
	if hasCompleteAddress(input.Address) {
		score += 15
	}
	if score > 25 {
		return 25
	}
	return score
}

func scoreWebsiteQuality(input SupplierSignals) int {
	score := 0
	if hasHTTPS(input.Website) {
		score += 10
	}
	if highQualityDomain(input.Website) {
		score += 10
	}
	if score > 20 {
		return 20
	}
	return score
}

func scoreCertEvidence(input SupplierSignals) int {
	if strings.TrimSpace(input.CertEvidence) == "" {
		return 0
	}
	return 15
}

func hasValue(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

func hasHTTPS(website string) bool {
	site := strings.ToLower(strings.TrimSpace(website))
	return strings.HasPrefix(site, "https://")
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	host = strings.TrimPrefix(host, "www.")
	return host
}
