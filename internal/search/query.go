package search

import (
	"fmt"
	"strings"
)

// BuildQueries produces the rule-based query set for a commodity, region and
// certification. Commodity and certification are quoted to keep multi-word
// terms intact; every blacklisted domain is appended as a -site: clause so
// marketplaces never reach the result filter in the first place.
func BuildQueries(commodity, region, certification string, blacklist []string) []string {
	queries := []string{
		fmt.Sprintf("%q %s %q supplier", commodity, region, certification),
		fmt.Sprintf("%q %s %q manufacturer", commodity, region, certification),
		fmt.Sprintf("%q %s %q OEM", commodity, region, certification),
		fmt.Sprintf("%q %s factory %q", commodity, region, certification),
		fmt.Sprintf("%q %s %q exporter", commodity, region, certification),
		fmt.Sprintf("%q %s %q distributor", commodity, region, certification),
	}
	if len(blacklist) == 0 {
		return queries
	}
	neg := negativeSiteClause(blacklist)
	for i, q := range queries {
		queries[i] = q + neg
	}
	return queries
}

func negativeSiteClause(blacklist []string) string {
	var b strings.Builder
	for _, domain := range blacklist {
		b.WriteString(" -site:")
		b.WriteString(domain)
	}
	return b.String()
}
