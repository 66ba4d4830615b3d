package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/supplier-finder/internal/harvest"
	"github.com/octobees/supplier-finder/internal/search"
	"github.com/octobees/supplier-finder/internal/service"
)

type stubSearcher struct {
	results []search.Result
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, query, location string, num int) ([]search.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type stubHarvester struct {
	records map[string]harvest.Record
}

func (s *stubHarvester) Harvest(ctx context.Context, url, regionHint string) harvest.Record {
	if rec, ok := s.records[url]; ok {
		return rec
	}
	return harvest.Record{SourcePage: url}
}

func newSearchHandler(searcher search.Searcher, harvester service.Harvester) *SearchHandler {
	finder := service.NewFinderService(searcher, harvester, nil, nil, nil, nil)
	return NewSearchHandler(finder, service.NewPromptService("India"))
}

func TestSearchHandler_Search(t *testing.T) {
	e := echo.New()

	searcher := &stubSearcher{results: []search.Result{
		{Title: "Acme Castings supplier", Link: "https://acme.com", Snippet: "ISO 9001 foundry"},
	}}
	harvester := &stubHarvester{records: map[string]harvest.Record{
		"https://acme.com": {
			SourcePage:  "https://acme.com/contact",
			CompanyName: "Acme Castings Pvt Ltd",
			Emails:      []string{"sales@acme.com"},
		},
	}}

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).Search(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"commodity": "castings"})
		req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).Search(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("search provider failure", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"commodity": "castings", "region": "Coimbatore"})
		req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(&stubSearcher{err: errors.New("quota exhausted")}, harvester).Search(c)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"commodity": "castings", "region": "Coimbatore"})
		req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).Search(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Status string            `json:"status"`
			Data   service.RunReport `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Data.Suppliers) != 1 || resp.Data.Suppliers[0].Domain != "acme.com" {
			t.Fatalf("unexpected report: %+v", resp.Data)
		}
	})
}

func TestSearchHandler_PromptSearch(t *testing.T) {
	e := echo.New()

	searcher := &stubSearcher{results: []search.Result{
		{Title: "Acme molding supplier", Link: "https://acme.com", Snippet: "injection molding"},
	}}
	harvester := &stubHarvester{records: map[string]harvest.Record{
		"https://acme.com": {
			SourcePage: "https://acme.com",
			Emails:     []string{"sales@acme.com"},
		},
	}}

	t.Run("empty prompt", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"prompt": "  "})
		req := httptest.NewRequest(http.MethodPost, "/prompt-search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).PromptSearch(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unparseable prompt", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"prompt": "find me suppliers"})
		req := httptest.NewRequest(http.MethodPost, "/prompt-search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).PromptSearch(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"prompt": "injection molding suppliers in Coimbatore"})
		req := httptest.NewRequest(http.MethodPost, "/prompt-search", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newSearchHandler(searcher, harvester).PromptSearch(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
