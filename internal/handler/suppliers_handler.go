package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/service"
)

// SuppliersHandler exposes the supplier catalogue endpoints.
type SuppliersHandler struct {
	service *service.SuppliersService
}

// NewSuppliersHandler creates a new handler instance.
func NewSuppliersHandler(service *service.SuppliersService) *SuppliersHandler {
	return &SuppliersHandler{service: service}
}

// List handles GET /suppliers requests.
func (h *SuppliersHandler) List(c echo.Context) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	suppliers, err := h.service.ListSuppliers(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list suppliers")
	}

	return Success(c, http.StatusOK, "suppliers retrieved", suppliers)
}

// Export handles GET /suppliers/export requests and streams a CSV attachment.
func (h *SuppliersHandler) Export(c echo.Context) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	filename := "suppliers-" + time.Now().Format("20060102-150405") + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.service.ExportCSV(c.Request().Context(), filter, c.Response()); err != nil {
		// headers are already out; the truncated body is all we can signal
		c.Logger().Error(err)
		return nil
	}
	return nil
}

func parseListFilter(c echo.Context) (dto.ListFilter, error) {
	filter := dto.ListFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Domain:  strings.TrimSpace(c.QueryParam("domain")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if runIDParam := strings.TrimSpace(c.QueryParam("run_id")); runIDParam != "" {
		parsed, err := uuid.Parse(runIDParam)
		if err != nil {
			return dto.ListFilter{}, errors.New("invalid run_id")
		}
		filter.RunID = &parsed
	}

	return filter, nil
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
