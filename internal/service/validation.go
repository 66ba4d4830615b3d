package service

import (
	"context"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/supplier-finder/internal/harvest"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "IN"

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// ContactValidator encapsulates the cleaning rules applied to harvested
// contact records before they are persisted.
type ContactValidator struct {
	DefaultRegion string
	dnsResolver   DNSResolver
	verifyMX      bool
}

// ValidatorOption configures optional dependencies.
type ValidatorOption func(*ContactValidator)

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) ValidatorOption {
	return func(v *ContactValidator) {
		v.dnsResolver = resolver
	}
}

// WithMXCheck toggles MX record verification of email domains. It is off by
// default because harvest runs already sit on the network critical path.
func WithMXCheck(enabled bool) ValidatorOption {
	return func(v *ContactValidator) {
		v.verifyMX = enabled
	}
}

// NewContactValidator builds a validator with sensible defaults.
func NewContactValidator(defaultRegion string, opts ...ValidatorOption) *ContactValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	v := &ContactValidator{
		DefaultRegion: region,
		dnsResolver:   systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns a cleaned copy of the record: syntactically valid,
// deduplicated emails (optionally MX-verified) and canonicalized phone
// numbers. Name, address and source page pass through untouched.
func (v *ContactValidator) Validate(ctx context.Context, record harvest.Record) harvest.Record {
	cleaned := record
	cleaned.Emails = v.CleanEmails(ctx, record.Emails)
	cleaned.Phones = v.CleanPhones(record.Phones, v.DefaultRegion)
	return cleaned
}

// CleanEmails lowercases, validates and deduplicates email addresses. Domains
// are punycoded before the optional MX lookup; lookup results are cached per
// domain within a single call.
func (v *ContactValidator) CleanEmails(ctx context.Context, emails []string) []string {
	if len(emails) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(emails))
	domainCache := make(map[string]bool)
	valid := make([]string, 0, len(emails))

	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || !emailPattern.MatchString(email) {
			continue
		}
		parts := strings.SplitN(email, "@", 2)
		domain := parts[1]
		if !isDomainValid(domain) {
			continue
		}
		asciiDomain, err := idnaProfile.ToASCII(domain)
		if err != nil || asciiDomain == "" {
			continue
		}
		if v.verifyMX {
			if ok, cached := domainCache[asciiDomain]; cached {
				if !ok {
					continue
				}
			} else {
				hasMX := v.hasMXRecord(ctx, asciiDomain)
				domainCache[asciiDomain] = hasMX
				if !hasMX {
					continue
				}
			}
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		valid = append(valid, email)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

// CleanPhones parses each candidate against the region and keeps the unique
// possible numbers in international format.
func (v *ContactValidator) CleanPhones(phones []string, region string) []string {
	if region == "" {
		region = v.DefaultRegion
	}
	seen := make(map[string]struct{}, len(phones))
	valid := make([]string, 0, len(phones))

	for _, raw := range phones {
		normalized := normalizePhone(raw, region)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		valid = append(valid, normalized)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func (v *ContactValidator) hasMXRecord(ctx context.Context, domain string) bool {
	if v.dnsResolver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	records, err := v.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
