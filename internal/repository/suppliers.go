package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/entity"
)

// SuppliersRepository describes persistence operations for suppliers and
// finder runs.
type SuppliersRepository interface {
	Upsert(ctx context.Context, supplier *entity.Supplier) (bool, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Supplier, error)
	CreateRun(ctx context.Context, run *entity.SearchRun) error
	FinishRun(ctx context.Context, runID uuid.UUID, sitesScraped, suppliersKept int) error
}

// ErrRunNotFound indicates there is no search run with the given identifier.
var ErrRunNotFound = errors.New("search run not found")

// pgxPool is the subset of pgxpool.Pool the repositories rely on.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXSuppliersRepository implements SuppliersRepository using pgx.
type PGXSuppliersRepository struct {
	pool pgxPool
}

// NewPGXSuppliersRepository wires a pgx backed repository.
func NewPGXSuppliersRepository(pool *pgxpool.Pool) *PGXSuppliersRepository {
	return &PGXSuppliersRepository{pool: pool}
}

// EnsureSchema creates the search_runs and suppliers tables if they are
// missing. Intended for startup; production migrations can replace it.
func (r *PGXSuppliersRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS search_runs (
			id UUID PRIMARY KEY,
			commodity TEXT NOT NULL,
			region TEXT NOT NULL,
			certification TEXT NOT NULL DEFAULT '',
			max_results INT NOT NULL DEFAULT 0,
			sites_scraped INT NOT NULL DEFAULT 0,
			suppliers_kept INT NOT NULL DEFAULT 0,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id UUID REFERENCES search_runs(id),
			name TEXT NOT NULL DEFAULT '',
			domain TEXT NOT NULL UNIQUE,
			website TEXT NOT NULL,
			address TEXT,
			emails TEXT[] NOT NULL DEFAULT '{}',
			phones TEXT[] NOT NULL DEFAULT '{}',
			cert_evidence TEXT,
			source_page TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS suppliers_run_id_idx ON suppliers (run_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const upsertSupplierSQL = `
        INSERT INTO suppliers (run_id, name, domain, website, address, emails, phones, cert_evidence, source_page, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        ON CONFLICT (domain) DO UPDATE SET
            run_id = COALESCE(EXCLUDED.run_id, suppliers.run_id),
            name = CASE WHEN suppliers.name <> '' THEN suppliers.name ELSE EXCLUDED.name END,
            website = EXCLUDED.website,
            address = COALESCE(suppliers.address, EXCLUDED.address),
            emails = ARRAY(SELECT DISTINCT e FROM unnest(suppliers.emails || EXCLUDED.emails) AS e ORDER BY e),
            phones = ARRAY(SELECT DISTINCT p FROM unnest(suppliers.phones || EXCLUDED.phones) AS p ORDER BY p),
            cert_evidence = COALESCE(suppliers.cert_evidence, EXCLUDED.cert_evidence),
            source_page = COALESCE(suppliers.source_page, EXCLUDED.source_page),
            updated_at = NOW()
        RETURNING id, xmax = 0;
    `

// Upsert inserts or merges a supplier keyed by its registrable domain.
// Collected emails and phones accumulate across runs; name and address keep
// their first non-empty value. Returns true when a new row was inserted.
func (r *PGXSuppliersRepository) Upsert(ctx context.Context, supplier *entity.Supplier) (bool, error) {
	if supplier == nil {
		return false, fmt.Errorf("supplier payload is nil")
	}
	if supplier.Domain == "" {
		return false, fmt.Errorf("supplier domain is empty")
	}

	var inserted bool
	err := r.pool.QueryRow(ctx, upsertSupplierSQL,
		supplier.RunID,
		supplier.Name,
		supplier.Domain,
		supplier.Website,
		supplier.Address,
		stringSliceOrEmpty(supplier.Emails),
		stringSliceOrEmpty(supplier.Phones),
		supplier.CertEvidence,
		supplier.SourcePage,
	).Scan(&supplier.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert supplier %q: %w", supplier.Domain, err)
	}
	return inserted, nil
}

// List retrieves suppliers matching the provided filter, sorted by name.
func (r *PGXSuppliersRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Supplier, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`
        SELECT
            id,
            run_id,
            name,
            domain,
            website,
            address,
            emails,
            phones,
            cert_evidence,
            source_page,
            created_at,
            updated_at
        FROM suppliers
    `)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Domain != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(domain) = LOWER($%d)", idx))
		args = append(args, filter.Domain)
		idx++
	}
	if filter.RunID != nil {
		clauses = append(clauses, fmt.Sprintf("run_id = $%d", idx))
		args = append(args, *filter.RunID)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY name ASC, domain ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	return scanSuppliers(rows)
}

// CreateRun records the start of a finder run.
func (r *PGXSuppliersRepository) CreateRun(ctx context.Context, run *entity.SearchRun) error {
	if run == nil {
		return fmt.Errorf("run payload is nil")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
        INSERT INTO search_runs (id, commodity, region, certification, max_results, started_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING started_at;
    `
	err := r.pool.QueryRow(ctx, query,
		run.ID,
		run.Commodity,
		run.Region,
		run.Certification,
		run.MaxResults,
	).Scan(&run.StartedAt)
	if err != nil {
		return fmt.Errorf("create search run: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its final counters.
func (r *PGXSuppliersRepository) FinishRun(ctx context.Context, runID uuid.UUID, sitesScraped, suppliersKept int) error {
	query := `
        UPDATE search_runs
        SET sites_scraped = $2, suppliers_kept = $3, finished_at = NOW()
        WHERE id = $1;
    `
	tag, err := r.pool.Exec(ctx, query, runID, sitesScraped, suppliersKept)
	if err != nil {
		return fmt.Errorf("finish search run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func scanSuppliers(rows pgx.Rows) ([]entity.Supplier, error) {
	var suppliers []entity.Supplier
	for rows.Next() {
		var (
			s            entity.Supplier
			runID        sql.NullString
			address      sql.NullString
			emails       []string
			phones       []string
			certEvidence sql.NullString
			sourcePage   sql.NullString
		)

		err := rows.Scan(
			&s.ID,
			&runID,
			&s.Name,
			&s.Domain,
			&s.Website,
			&address,
			&emails,
			&phones,
			&certEvidence,
			&sourcePage,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}

		if runID.Valid {
			parsed, err := uuid.Parse(runID.String)
			if err != nil {
				return nil, fmt.Errorf("parse run_id: %w", err)
			}
			s.RunID = &parsed
		}
		s.Address = nullStringToPtr(address)
		s.CertEvidence = nullStringToPtr(certEvidence)
		s.SourcePage = nullStringToPtr(sourcePage)
		if len(emails) > 0 {
			s.Emails = append([]string(nil), emails...)
		}
		if len(phones) > 0 {
			s.Phones = append([]string(nil), phones...)
		}

		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return suppliers, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
