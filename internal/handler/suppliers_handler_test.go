package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/entity"
	"github.com/octobees/supplier-finder/internal/service"
)

type stubSuppliersRepo struct {
	gotFilter dto.ListFilter
	suppliers []entity.Supplier
}

func (s *stubSuppliersRepo) Upsert(ctx context.Context, supplier *entity.Supplier) (bool, error) {
	return false, nil
}

func (s *stubSuppliersRepo) List(ctx context.Context, filter dto.ListFilter) ([]entity.Supplier, error) {
	s.gotFilter = filter
	return s.suppliers, nil
}

func (s *stubSuppliersRepo) CreateRun(ctx context.Context, run *entity.SearchRun) error {
	return nil
}

func (s *stubSuppliersRepo) FinishRun(ctx context.Context, runID uuid.UUID, sitesScraped, suppliersKept int) error {
	return nil
}

func TestSuppliersHandler_List(t *testing.T) {
	e := echo.New()
	runID := uuid.New()
	repo := &stubSuppliersRepo{suppliers: []entity.Supplier{
		{ID: uuid.New(), Name: "Acme", Domain: "acme.com", Website: "https://acme.com", Emails: []string{"sales@acme.com"}},
	}}
	handler := NewSuppliersHandler(service.NewSuppliersService(repo))

	t.Run("invalid run id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/suppliers?run_id=not-a-uuid", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = handler.List(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success with filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/suppliers?q=acme&domain=acme.com&run_id="+runID.String()+"&page=2&per_page=10", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = handler.List(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if repo.gotFilter.Q != "acme" || repo.gotFilter.Domain != "acme.com" {
			t.Fatalf("unexpected filter: %+v", repo.gotFilter)
		}
		if repo.gotFilter.RunID == nil || *repo.gotFilter.RunID != runID {
			t.Fatalf("expected run id forwarded, got %+v", repo.gotFilter.RunID)
		}
		if repo.gotFilter.Page != 2 || repo.gotFilter.PerPage != 10 {
			t.Fatalf("unexpected pagination: %+v", repo.gotFilter)
		}

		var resp struct {
			Status string            `json:"status"`
			Data   []entity.Supplier `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].Domain != "acme.com" {
			t.Fatalf("unexpected body: %+v", resp.Data)
		}
	})
}

func TestSuppliersHandler_Export(t *testing.T) {
	e := echo.New()
	address := "12 MG Road, Coimbatore"
	repo := &stubSuppliersRepo{suppliers: []entity.Supplier{
		{
			ID:      uuid.New(),
			Name:    "Acme",
			Domain:  "acme.com",
			Website: "https://acme.com",
			Address: &address,
			Emails:  []string{"sales@acme.com"},
			Phones:  []string{"+91 98765 43210"},
		},
	}}
	handler := NewSuppliersHandler(service.NewSuppliersService(repo))

	req := httptest.NewRequest(http.MethodGet, "/suppliers/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %s", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %s", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Supplier Name,Website link,Contact Address,Contact Email,Contact Phone Number") {
		t.Fatalf("unexpected csv header: %q", body)
	}
	if !strings.Contains(body, "Acme,https://acme.com,\"12 MG Road, Coimbatore\",sales@acme.com,+91 98765 43210") {
		t.Fatalf("unexpected csv row: %q", body)
	}
}
