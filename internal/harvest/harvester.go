package harvest

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Config carries the harvest tunables. Values are read-only once the
// harvester is built, so a single Harvester is safe to use from concurrent
// harvest calls; no state is shared between sites.
type Config struct {
	// RequestTimeout bounds each individual HTTP GET.
	RequestTimeout time.Duration
	// SiteBudget is the wall-clock ceiling for one whole harvest, shared
	// across the entry page and every contact page visited.
	SiteBudget time.Duration
	// MaxContactPages caps how many contact/about links are followed.
	MaxContactPages int
	// LinkHints select which hrefs count as contact/about pages.
	LinkHints []string
	// UserAgent is sent on every request.
	UserAgent string
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 12 * time.Second
	}
	if c.SiteBudget <= 0 {
		c.SiteBudget = 25 * time.Second
	}
	if c.MaxContactPages <= 0 {
		c.MaxContactPages = 3
	}
	if len(c.LinkHints) == 0 {
		c.LinkHints = DefaultLinkHints
	}
	return c
}

// Harvester extracts a merged contact record from one candidate site,
// visiting the entry page plus at most MaxContactPages contact/about pages
// within the site budget.
type Harvester struct {
	fetcher PageFetcher
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a harvester with its own HTTP fetcher.
func New(cfg Config, logger *slog.Logger) *Harvester {
	cfg = cfg.withDefaults()
	return NewWithFetcher(NewFetcher(cfg.RequestTimeout, cfg.UserAgent), cfg, logger)
}

// NewWithFetcher builds a harvester around an existing fetcher. Used by
// tests to substitute canned pages.
func NewWithFetcher(fetcher PageFetcher, cfg Config, logger *slog.Logger) *Harvester {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harvester{
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		now:     time.Now,
	}
}

// Harvest fetches url, runs every extractor, and follows contact/about links
// until the record is complete or the site budget runs out. Every fetch or
// parse failure degrades to an empty contribution from that page; the method
// always returns a well-formed record.
func (h *Harvester) Harvest(ctx context.Context, url, regionHint string) Record {
	deadline := h.now().Add(h.cfg.SiteBudget)

	record, entry := h.harvestPage(ctx, url, regionHint)
	if entry == nil {
		return record
	}

	// Most sites surface contact data on the homepage; skip the extra
	// fetches when the entry page already yielded everything.
	if record.Complete() {
		return record
	}
	if !h.now().Before(deadline) {
		return record
	}

	links := DiscoverContactLinks(entry.FinalURL, entry, h.cfg.LinkHints, h.cfg.MaxContactPages)
	for _, link := range links {
		if !h.now().Before(deadline) {
			h.logger.Debug("site budget exhausted", "url", url, "skipped", link)
			break
		}
		sub, _ := h.harvestPage(ctx, link, regionHint)
		record.Merge(sub)
		if record.Complete() {
			break
		}
	}
	return record
}

// harvestPage fetches a single page and runs all four extractors over it.
// On fetch failure the returned record is empty and the page is nil.
func (h *Harvester) harvestPage(ctx context.Context, url, regionHint string) (Record, *Page) {
	record := Record{SourcePage: url}
	page, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		h.logger.Debug("page fetch failed", "url", url, "err", err)
		return record, nil
	}
	record.SourcePage = page.FinalURL
	record.CompanyName = ExtractCompanyName(page)
	record.Emails = ExtractEmails(page)
	record.Phones = ExtractPhones(page.Text, regionHint)
	record.Address = ExtractAddress(page)
	return record, page
}
