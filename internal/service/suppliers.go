package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/octobees/supplier-finder/internal/dto"
	"github.com/octobees/supplier-finder/internal/entity"
	"github.com/octobees/supplier-finder/internal/repository"
)

// SuppliersService exposes read operations over the supplier catalogue.
type SuppliersService struct {
	repo repository.SuppliersRepository
}

// NewSuppliersService creates a new instance of SuppliersService.
func NewSuppliersService(repo repository.SuppliersRepository) *SuppliersService {
	return &SuppliersService{repo: repo}
}

// ListSuppliers returns suppliers respecting pagination defaults.
func (s *SuppliersService) ListSuppliers(ctx context.Context, filter dto.ListFilter) ([]entity.Supplier, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.repo.List(ctx, filter)
}

var exportHeader = []string{"Supplier Name", "Website link", "Contact Address", "Contact Email", "Contact Phone Number"}

// ExportCSV streams the suppliers matching the filter as a CSV report.
// Multiple emails or phones are joined with "; " inside their cell.
func (s *SuppliersService) ExportCSV(ctx context.Context, filter dto.ListFilter, w io.Writer) error {
	if filter.PerPage <= 0 {
		// exports default to a larger page than the JSON listing
		filter.PerPage = 100
	}
	suppliers, err := s.ListSuppliers(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, supplier := range suppliers {
		row := []string{
			supplier.Name,
			supplier.Website,
			derefOrEmpty(supplier.Address),
			strings.Join(supplier.Emails, "; "),
			strings.Join(supplier.Phones, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
