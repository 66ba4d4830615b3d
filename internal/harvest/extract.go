package harvest

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"
)

var (
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:tel:)?\+?\d[\d\s().\-]{5,}\d`)
	digitPattern = regexp.MustCompile(`\d`)
)

// jsonLDTypes are the schema.org entity types whose address block we trust.
var jsonLDTypes = []string{"organization", "localbusiness", "person", "store", "corporation"}

// ExtractEmails collects email addresses from mailto links and from the
// page's visible text. Results are lowercased, deduplicated and sorted.
// Obfuscated or image-only addresses are a known miss.
func ExtractEmails(page *Page) []string {
	var found []string
	if page.Doc != nil {
		page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href := strings.TrimSpace(s.AttrOr("href", ""))
			if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
				return
			}
			target := href[len("mailto:"):]
			if i := strings.IndexByte(target, '?'); i >= 0 {
				target = target[:i]
			}
			if email := emailPattern.FindString(target); email != "" {
				found = append(found, strings.ToLower(email))
			}
		})
	}
	for _, email := range emailPattern.FindAllString(page.Text, -1) {
		found = append(found, strings.ToLower(email))
	}
	return dedupeSorted(found)
}

// ExtractPhones scans free text for plausible phone candidates (7+ digits,
// optional separators, optional leading + or tel: prefix), validates each
// against the default region and keeps only numbers the library classifies
// as possible, formatted internationally. Invalid candidates are dropped
// silently.
func ExtractPhones(text, defaultRegion string) []string {
	var found []string
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "tel:"))
		if len(digitPattern.FindAllString(candidate, -1)) < 7 {
			continue
		}
		num, err := phonenumbers.Parse(candidate, defaultRegion)
		if err != nil {
			continue
		}
		if !phonenumbers.IsPossibleNumber(num) {
			continue
		}
		found = append(found, phonenumbers.Format(num, phonenumbers.INTERNATIONAL))
	}
	return dedupeSorted(found)
}

// ExtractAddress looks for a postal address inside embedded JSON-LD blocks
// describing an organization-like entity. Structured address parts are
// joined with ", "; a bare string address is returned verbatim. Returns ""
// when no block parses, so structured-data absence means no address from
// this page.
func ExtractAddress(page *Page) string {
	if page.Doc == nil {
		return ""
	}
	var address string
	page.Doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		address = pickAddress(data)
		return address == ""
	})
	return address
}

func pickAddress(data any) string {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if addr := pickAddress(item); addr != "" {
				return addr
			}
		}
	case map[string]any:
		typeName, _ := v["@type"].(string)
		typeName = strings.ToLower(typeName)
		matched := false
		for _, t := range jsonLDTypes {
			if strings.Contains(typeName, t) {
				matched = true
				break
			}
		}
		if !matched {
			return ""
		}
		switch addr := v["address"].(type) {
		case string:
			return strings.TrimSpace(addr)
		case map[string]any:
			parts := make([]string, 0, 5)
			for _, key := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"} {
				if part, ok := addr[key].(string); ok && strings.TrimSpace(part) != "" {
					parts = append(parts, strings.TrimSpace(part))
				}
			}
			return strings.Join(parts, ", ")
		}
	}
	return ""
}

// ExtractCompanyName tries, in order: the og:site_name meta tag, the page
// title trimmed at the first pipe or en-dash, and the first image alt text
// of at least three characters.
func ExtractCompanyName(page *Page) string {
	if page.Doc == nil {
		return ""
	}
	if og := strings.TrimSpace(page.Doc.Find(`meta[property="og:site_name"]`).AttrOr("content", "")); og != "" {
		return og
	}
	if title := strings.TrimSpace(page.Doc.Find("title").First().Text()); title != "" {
		title, _, _ = strings.Cut(title, "|")
		title, _, _ = strings.Cut(title, "–")
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	var alt string
	page.Doc.Find("img[alt]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		candidate := strings.TrimSpace(s.AttrOr("alt", ""))
		if len([]rune(candidate)) >= 3 {
			alt = candidate
			return false
		}
		return true
	})
	return alt
}
