package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"matflow/internal/caching"
	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CatalogService serves the static material catalog: lookups, filtered
// listings and the admin spreadsheet import.
type CatalogService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Material, error)
	Filter(ctx context.Context, filter *models.MaterialFilter) ([]*models.Material, error)
	ImportWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error)
	// Delete removes a catalog entry. Fails with ErrMaterialReferenced while
	// inventory, BOM lines or orders still point at it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImportResult summarizes a catalog workbook import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type catalogService struct {
	materialRepo repositories.MaterialRepository
	cacheService caching.CacheService
}

func NewCatalogService(materialRepo repositories.MaterialRepository, cacheService caching.CacheService) CatalogService {
	return &catalogService{
		materialRepo: materialRepo,
		cacheService: cacheService,
	}
}

// Materials change rarely; a long TTL is fine.
const materialCacheTTL = time.Hour

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	if cached, err := s.cacheService.GetMaterial(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for material %s: %v", id, err)
	}

	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetMaterial(ctx, material, materialCacheTTL); cacheErr != nil {
		log.Printf("failed to cache material %s: %v", id, cacheErr)
	}

	return material, nil
}

func (s *catalogService) Filter(ctx context.Context, filter *models.MaterialFilter) ([]*models.Material, error) {
	if filter == nil {
		filter = &models.MaterialFilter{}
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, common.InvalidArgumentf("unknown category %q", *filter.Category)
	}
	if filter.Availability != nil && !filter.Availability.Valid() {
		return nil, common.InvalidArgumentf("unknown availability class %q", *filter.Availability)
	}
	return s.materialRepo.Filter(ctx, filter)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.materialRepo.Delete(ctx, id); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteMaterial(ctx, id); cacheErr != nil {
		log.Printf("failed to invalidate cache for material %s: %v", id, cacheErr)
	}
	return nil
}

// Workbook column layout, one material per row after the header:
// Code | Name | Category | Description | Thickness (mm) | Unit | Unit cost | Currency
const importMinColumns = 8

// ImportWorkbook reads an .xlsx catalog export and creates one material per
// row. Rows that fail validation are reported per row number and skipped;
// valid rows are still imported.
func (s *catalogService) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.InvalidArgumentf("cannot read workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.InvalidArgumentf("cannot read sheet %q: %v", sheet, err)
	}
	if len(rows) < 2 {
		return nil, common.InvalidArgumentf("workbook has no data rows")
	}

	result := &ImportResult{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		material, err := parseImportRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		// Re-imports of an existing code are skipped, not updated: catalog
		// entries are immutable reference data.
		if existing, err := s.materialRepo.GetByCode(ctx, material.Code); err == nil && existing != nil {
			result.Skipped++
			continue
		}

		if err := s.materialRepo.Create(ctx, material); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func parseImportRow(row []string) (*models.Material, error) {
	if len(row) < importMinColumns {
		return nil, fmt.Errorf("expected at least %d columns, got %d", importMinColumns, len(row))
	}

	code := strings.TrimSpace(row[0])
	name := strings.TrimSpace(row[1])
	if code == "" || name == "" {
		return nil, fmt.Errorf("code and name are required")
	}

	category := models.Category(strings.TrimSpace(row[2]))
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", row[2])
	}

	material := &models.Material{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Category:    category,
		Description: common.StringPtr(strings.TrimSpace(row[3])),
		Unit:        strings.TrimSpace(row[5]),
		Currency:    strings.TrimSpace(row[7]),
		IsStandard:  true,
	}

	if t := strings.TrimSpace(row[4]); t != "" {
		thickness, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", "."), 64)
		if err != nil || thickness <= 0 {
			return nil, fmt.Errorf("invalid thickness %q", t)
		}
		material.Thickness = &thickness
	}

	cost, err := decimal.NewFromString(strings.TrimSpace(row[6]))
	if err != nil || cost.IsNegative() {
		return nil, fmt.Errorf("invalid unit cost %q", row[6])
	}
	material.UnitCost = cost

	return material, nil
}
