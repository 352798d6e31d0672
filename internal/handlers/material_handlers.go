package handlers

import (
	"net/http"
	"strconv"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// MaterialHandlers handles catalog-related HTTP requests
type MaterialHandlers struct {
	catalogService    services.CatalogService
	validationService services.ValidationService
}

// NewMaterialHandlers creates a new material handlers instance
func NewMaterialHandlers(catalogService services.CatalogService, validationService services.ValidationService) *MaterialHandlers {
	return &MaterialHandlers{
		catalogService:    catalogService,
		validationService: validationService,
	}
}

// ListMaterialsRequest represents query parameters for catalog listings
type ListMaterialsRequest struct {
	Category     string `query:"category"`
	Availability string `query:"availability"`
	PriceMin     string `query:"price_min"`
	PriceMax     string `query:"price_max"`
	Search       string `query:"search"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}

// ListMaterials handles filtered catalog queries
func (h *MaterialHandlers) ListMaterials(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMaterialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	filter := &models.MaterialFilter{
		Query:  req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Category != "" {
		category := models.Category(req.Category)
		filter.Category = &category
	}
	if req.Availability != "" {
		availability := models.StockStatus(req.Availability)
		if !availability.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid availability class")
		}
		filter.Availability = &availability
	}
	if req.PriceMin != "" {
		min, err := decimal.NewFromString(req.PriceMin)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid price_min")
		}
		filter.MinPrice = &min
	}
	if req.PriceMax != "" {
		max, err := decimal.NewFromString(req.PriceMax)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid price_max")
		}
		filter.MaxPrice = &max
	}

	materials, err := h.catalogService.Filter(ctx, filter)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": materials,
	})
}

// GetMaterial handles catalog lookups by id
func (h *MaterialHandlers) GetMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("id"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	material, err := h.catalogService.Get(ctx, materialID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, material)
}

// DeleteMaterial handles catalog entry removal
func (h *MaterialHandlers) DeleteMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("id"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	if err := h.catalogService.Delete(ctx, materialID); err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Material deleted",
	})
}

// ImportMaterials handles catalog workbook imports (.xlsx request body)
func (h *MaterialHandlers) ImportMaterials(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.catalogService.ImportWorkbook(ctx, c.Request().Body)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// ValidateThickness handles dimensional tolerance queries
func (h *MaterialHandlers) ValidateThickness(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("id"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	actualStr := c.QueryParam("actual")
	if actualStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "actual thickness is required")
	}
	actual, err := strconv.ParseFloat(actualStr, 64)
	if err != nil || actual <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid actual thickness")
	}

	result, err := h.validationService.ValidateThicknessByID(ctx, materialID, actual)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}
