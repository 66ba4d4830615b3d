package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/entity"
	"github.com/octobees/supplier-finder/internal/enrich"
	"github.com/octobees/supplier-finder/internal/harvest"
	"github.com/octobees/supplier-finder/internal/repository"
	"github.com/octobees/supplier-finder/internal/search"
	"github.com/octobees/supplier-finder/internal/service/scoring"
)

const (
	defaultMaxResults = 15
	maxMaxResults     = 50
	maxEmailsPerRow   = 5
	maxPhonesPerRow   = 3
	enrichEmailLimit  = 5
)

// Harvester extracts a merged contact record from one candidate site.
type Harvester interface {
	Harvest(ctx context.Context, url, regionHint string) harvest.Record
}

// SupplierRow is one line of the finder report.
type SupplierRow struct {
	Name         string   `json:"name"`
	Domain       string   `json:"domain"`
	Website      string   `json:"website"`
	Address      string   `json:"address,omitempty"`
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	CertEvidence string   `json:"cert_evidence,omitempty"`
	SourcePage   string   `json:"source_page,omitempty"`
	Score        int      `json:"score"`
	HarvestMS    int64    `json:"harvest_ms"`
}

// RunReport summarises one finder run.
type RunReport struct {
	Run       entity.SearchRun `json:"run"`
	Suppliers []SupplierRow    `json:"suppliers"`
}

// FinderService drives the full pipeline: build queries, search, filter the
// hits down to likely supplier domains, harvest each site for contacts,
// validate and enrich them, and persist the survivors.
type FinderService struct {
	searcher  search.Searcher
	harvester Harvester
	enricher  enrich.Enricher
	validator *ContactValidator
	repo      repository.SuppliersRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewFinderService wires the pipeline. enricher may be nil when no provider
// is configured; repo may be nil to run without persistence.
func NewFinderService(
	searcher search.Searcher,
	harvester Harvester,
	enricher enrich.Enricher,
	validator *ContactValidator,
	repo repository.SuppliersRepository,
	logger *slog.Logger,
) *FinderService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FinderService{
		searcher:  searcher,
		harvester: harvester,
		enricher:  enricher,
		validator: validator,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}
}

type candidate struct {
	domain  string
	website string
	title   string
	snippet string
}

// FindSuppliers runs the pipeline for one request.
func (s *FinderService) FindSuppliers(ctx context.Context, req dto.FindSuppliersRequest) (*RunReport, error) {
	commodity := strings.TrimSpace(req.Commodity)
	region := strings.TrimSpace(req.Region)
	if commodity == "" || region == "" {
		return nil, errors.New("commodity and region are required")
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	run := entity.SearchRun{
		Commodity:     commodity,
		Region:        region,
		Certification: strings.TrimSpace(req.Certification),
		MaxResults:    maxResults,
		StartedAt:     s.now(),
	}
	if s.repo != nil {
		if err := s.repo.CreateRun(ctx, &run); err != nil {
			return nil, fmt.Errorf("record search run: %w", err)
		}
	}

	candidates, err := s.collectCandidates(ctx, commodity, region, run.Certification, maxResults)
	if err != nil {
		return nil, err
	}

	certTerms := search.CompileCertTerms(run.Certification)
	report := &RunReport{Run: run}

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, kept := s.harvestCandidate(ctx, cand, req.RegionHint, certTerms, run.ID)
		report.Run.SitesScraped++
		if !kept {
			continue
		}
		report.Suppliers = append(report.Suppliers, row)
		report.Run.SuppliersKept++
	}

	// highest-confidence suppliers first
	sort.SliceStable(report.Suppliers, func(i, j int) bool {
		return report.Suppliers[i].Score > report.Suppliers[j].Score
	})

	if s.repo != nil {
		if err := s.repo.FinishRun(ctx, run.ID, report.Run.SitesScraped, report.Run.SuppliersKept); err != nil {
			s.logger.Warn("finish search run", "run_id", run.ID, "err", err)
		}
	}
	finished := s.now()
	report.Run.FinishedAt = &finished

	s.logger.Info("finder run complete",
		"run_id", run.ID,
		"commodity", commodity,
		"region", region,
		"sites_scraped", report.Run.SitesScraped,
		"suppliers_kept", report.Run.SuppliersKept,
	)
	return report, nil
}

// collectCandidates fans the built queries out to the search provider and
// reduces the hits to unique, non-aggregator supplier domains.
func (s *FinderService) collectCandidates(ctx context.Context, commodity, region, certification string, maxResults int) ([]candidate, error) {
	queries := search.BuildQueries(commodity, region, certification, search.AggregatorBlacklist)

	seen := make(map[string]struct{})
	var candidates []candidate
	var searchErr error

	for _, query := range queries {
		if len(candidates) >= maxResults {
			break
		}
		results, err := s.searcher.Search(ctx, query, region, maxResults)
		if err != nil {
			s.logger.Warn("search query failed", "query", query, "err", err)
			searchErr = err
			continue
		}
		for _, result := range results {
			domain := search.RegisteredDomain(result.Link)
			if domain == "" {
				continue
			}
			if _, dup := seen[domain]; dup {
				continue
			}
			if search.IsBlacklistedDomain(domain, search.AggregatorBlacklist) {
				continue
			}
			if !search.IsLikelySupplierResult(result.Title, result.Snippet) {
				continue
			}
			seen[domain] = struct{}{}
			candidates = append(candidates, candidate{
				domain:  domain,
				website: result.Link,
				title:   result.Title,
				snippet: result.Snippet,
			})
			if len(candidates) >= maxResults {
				break
			}
		}
	}

	if len(candidates) == 0 {
		if searchErr != nil {
			return nil, fmt.Errorf("search suppliers: %w", searchErr)
		}
		return nil, nil
	}
	return candidates, nil
}

// harvestCandidate visits one site, cleans the harvested record and persists
// it. Sites that yield neither an email nor a phone are dropped.
func (s *FinderService) harvestCandidate(ctx context.Context, cand candidate, regionHint string, certTerms []string, runID uuid.UUID) (SupplierRow, bool) {
	start := s.now()
	record := s.harvester.Harvest(ctx, cand.website, regionHint)
	elapsed := s.now().Sub(start)

	if s.validator != nil {
		record = s.validator.Validate(ctx, record)
	}

	if len(record.Emails) == 0 && s.enricher != nil {
		extra, err := s.enricher.DomainEmails(ctx, cand.domain, enrichEmailLimit)
		if err != nil {
			s.logger.Debug("email enrichment failed", "domain", cand.domain, "err", err)
		} else if len(extra) > 0 {
			record.Merge(harvest.Record{Emails: extra})
			if s.validator != nil {
				record.Emails = s.validator.CleanEmails(ctx, record.Emails)
			}
		}
	}

	s.logger.Debug("site harvested",
		"domain", cand.domain,
		"emails", len(record.Emails),
		"phones", len(record.Phones),
		"elapsed", elapsed,
	)

	if len(record.Emails) == 0 && len(record.Phones) == 0 {
		return SupplierRow{}, false
	}

	name := record.CompanyName
	if name == "" {
		name = cand.title
	}

	row := SupplierRow{
		Name:       name,
		Domain:     cand.domain,
		Website:    cand.website,
		Address:    record.Address,
		Emails:     capSlice(record.Emails, maxEmailsPerRow),
		Phones:     capSlice(record.Phones, maxPhonesPerRow),
		SourcePage: record.SourcePage,
		HarvestMS:  elapsed.Milliseconds(),
	}
	if found, evidence := search.FindCertMentions(cand.title+" "+cand.snippet, certTerms); found {
		row.CertEvidence = evidence
	}
	row.Score = scoring.ComputeScore(scoring.SupplierSignals{
		Name:         row.Name,
		Emails:       row.Emails,
		Phones:       row.Phones,
		Address:      row.Address,
		Website:      row.Website,
		SourcePage:   row.SourcePage,
		CertEvidence: row.CertEvidence,
	}).Total

	if s.repo != nil {
		supplier := rowToSupplier(row, runID)
		if _, err := s.repo.Upsert(ctx, supplier); err != nil {
			s.logger.Warn("persist supplier", "domain", cand.domain, "err", err)
		}
	}

	return row, true
}

func rowToSupplier(row SupplierRow, runID uuid.UUID) *entity.Supplier {
	supplier := &entity.Supplier{
		Name:    row.Name,
		Domain:  row.Domain,
		Website: row.Website,
		Emails:  row.Emails,
		Phones:  row.Phones,
	}
	if runID != uuid.Nil {
		id := runID
		supplier.RunID = &id
	}
	if row.Address != "" {
		addr := row.Address
		supplier.Address = &addr
	}
	if row.CertEvidence != "" {
		ev := row.CertEvidence
		supplier.CertEvidence = &ev
	}
	if row.SourcePage != "" {
		src := row.SourcePage
		supplier.SourcePage = &src
	}
	return supplier
}

func capSlice(values []string, limit int) []string {
	if len(values) <= limit {
		return values
	}
	return values[:limit]
}
