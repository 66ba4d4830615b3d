package harvest

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkHints are the href keywords that mark a link as a likely
// contact or about page.
var DefaultLinkHints = []string{"contact", "contact-us", "contacts", "impressum", "about", "company", "reach-us"}

// DiscoverContactLinks scans the page's anchors for hrefs containing one of
// the hint keywords, resolves them against baseURL, deduplicates preserving
// first-seen order and truncates to maxLinks. There is no relevance ranking
// beyond keyword match and discovery order.
func DiscoverContactLinks(baseURL string, page *Page, hints []string, maxLinks int) []string {
	if page == nil || page.Doc == nil || maxLinks <= 0 {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		lower := strings.ToLower(href)
		matched := false
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	if len(links) > maxLinks {
		links = links[:maxLinks]
	}
	return links
}
