package search

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// AggregatorBlacklist lists marketplace and directory domains whose results
// are never individual supplier sites.
var AggregatorBlacklist = []string{
	"indiamart.com", "dir.indiamart.com",
	"alibaba.com", "aliexpress.com", "1688.com",
	"made-in-china.com", "globalsources.com",
	"tradeindia.com", "exportersindia.com",
	"justdial.com", "yellowpages.com", "yellowpages.in", "yelp.com",
	"thomasnet.com",
	"amazon.com", "amazon.in", "amazon.co.in",
	"ebay.com", "ebay.in",
	"facebook.com", "linkedin.com", "instagram.com",
	"wikipedia.org", "wikimedia.org",
	"google.com", "maps.google.com",
}

// SupplierHintWords mark a result title/snippet as manufacturing related.
var SupplierHintWords = []string{
	"supplier", "manufacturer", "distributor", "fabricator", "oem", "factory",
	"exporter", "wholesaler", "vendor", "machining", "stamping", "molding", "casting",
	"tooling", "die casting", "injection molding", "cnc", "sheet metal", "foundry",
}

// CertSynonyms maps a certification to the spellings it appears under on
// supplier sites.
var CertSynonyms = map[string][]string{
	"IATF 16949": {"IATF 16949", "TS 16949"},
	"ISO 9001":   {"ISO9001", "ISO 9001", "ISO-9001"},
	"ISO 13485":  {"ISO 13485", "ISO13485"},
	"ISO 14001":  {"ISO 14001", "ISO-14001", "ISO14001"},
	"ISO 45001":  {"ISO 45001", "ISO45001", "OHSAS 18001"},
	"RoHS":       {"RoHS", "Restriction of Hazardous Substances"},
	"REACH":      {"REACH", "Registration, Evaluation, Authorisation and Restriction of Chemicals"},
	"FDA":        {"FDA", "Food and Drug Administration"},
	"CE":         {"CE", "CE Marking"},
}

// RegisteredDomain extracts the registrable domain (eTLD+1) from a URL,
// lowercased. Returns "" when the URL has no usable host.
func RegisteredDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

// IsLikelySupplierResult reports whether a result's title or snippet carries
// any manufacturing hint word.
func IsLikelySupplierResult(title, snippet string) bool {
	title = strings.ToLower(title)
	snippet = strings.ToLower(snippet)
	for _, w := range SupplierHintWords {
		if strings.Contains(title, w) || strings.Contains(snippet, w) {
			return true
		}
	}
	return false
}

// IsBlacklistedDomain reports whether domain is, or is a subdomain of, a
// blacklisted entry.
func IsBlacklistedDomain(domain string, blacklist []string) bool {
	domain = strings.ToLower(domain)
	if domain == "" {
		return false
	}
	for _, b := range blacklist {
		if domain == b || strings.HasSuffix(domain, "."+b) {
			return true
		}
	}
	return false
}

// CompileCertTerms expands a certification into the full synonym list,
// keeping the user's own spelling first.
func CompileCertTerms(certification string) []string {
	certification = strings.TrimSpace(certification)
	if certification == "" {
		return nil
	}
	terms := []string{certification}
	lower := strings.ToLower(certification)
	for canonical, synonyms := range CertSynonyms {
		if strings.Contains(strings.ToLower(canonical), lower) ||
			strings.Contains(strings.ToLower(strings.Join(synonyms, " ")), lower) {
			terms = append(terms, synonyms...)
		}
	}
	return uniqueKeepOrder(terms)
}

// FindCertMentions reports whether any term occurs in the text, along with a
// short context window around the first hit.
func FindCertMentions(text string, terms []string) (bool, string) {
	lower := strings.ToLower(text)
	for _, term := range terms {
		idx := strings.Index(lower, strings.ToLower(term))
		if idx < 0 {
			continue
		}
		start := idx - 60
		if start < 0 {
			start = 0
		}
		end := idx + 60
		if end > len(text) {
			end = len(text)
		}
		return true, strings.TrimSpace(text[start:end])
	}
	return false, ""
}

func uniqueKeepOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
