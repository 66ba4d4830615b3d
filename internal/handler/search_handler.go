package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/service"
)

// SearchHandler runs the supplier finder pipeline synchronously. Runs are
// bounded (per-site budget, capped result count), so a request completes
// within a few minutes at worst.
type SearchHandler struct {
	finder  *service.FinderService
	prompts *service.PromptService
}

// NewSearchHandler wires the handler.
func NewSearchHandler(finder *service.FinderService, prompts *service.PromptService) *SearchHandler {
	return &SearchHandler{finder: finder, prompts: prompts}
}

// Search handles POST /search requests.
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.FindSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Commodity = strings.TrimSpace(req.Commodity)
	req.Region = strings.TrimSpace(req.Region)
	if req.Commodity == "" || req.Region == "" {
		return Error(c, http.StatusBadRequest, "commodity and region are required")
	}

	report, err := h.finder.FindSuppliers(c.Request().Context(), req)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}

	return Success(c, http.StatusOK, "finder run complete", report)
}

// PromptSearch handles POST /prompt-search requests.
func (h *SearchHandler) PromptSearch(c echo.Context) error {
	var req dto.PromptSearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return Error(c, http.StatusBadRequest, "prompt is required")
	}

	parsed, err := h.prompts.Parse(req)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	report, err := h.finder.FindSuppliers(c.Request().Context(), parsed)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}

	return Success(c, http.StatusOK, "finder run complete", map[string]any{
		"query":  parsed,
		"report": report,
	})
}
