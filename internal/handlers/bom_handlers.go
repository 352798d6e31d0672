package handlers

import (
	"net/http"

	"matflow/internal/common"
	"matflow/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BOMHandlers handles bill-of-materials and demand generation requests
type BOMHandlers struct {
	bomService    services.BOMService
	demandService services.DemandService
}

// NewBOMHandlers creates a new BOM handlers instance
func NewBOMHandlers(bomService services.BOMService, demandService services.DemandService) *BOMHandlers {
	return &BOMHandlers{
		bomService:    bomService,
		demandService: demandService,
	}
}

// AttachBOMRequest replaces an element's BOM lines
type AttachBOMRequest struct {
	ProjectID uuid.UUID               `json:"project_id"`
	Lines     []services.BOMLineInput `json:"lines"`
}

// AttachBOM handles per-element BOM attachment
func (h *BOMHandlers) AttachBOM(c echo.Context) error {
	ctx := c.Request().Context()

	elementID, err := common.ValidateUUID(c.Param("elementId"), "element id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req AttachBOMRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	lines, err := h.bomService.AttachBOM(ctx, elementID, req.ProjectID, req.Lines)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"element_id": elementID,
		"lines":      lines,
	})
}

// GetElementBOM handles per-element BOM lookups
func (h *BOMHandlers) GetElementBOM(c echo.Context) error {
	ctx := c.Request().Context()

	elementID, err := common.ValidateUUID(c.Param("elementId"), "element id")
	if err != nil {
		return common.HTTPError(err)
	}

	lines, err := h.bomService.ListByElement(ctx, elementID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"element_id": elementID,
		"lines":      lines,
	})
}

// GetConsolidatedBOM handles project-level demand consolidation queries
func (h *BOMHandlers) GetConsolidatedBOM(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.Param("projectId"), "project id")
	if err != nil {
		return common.HTTPError(err)
	}

	requirements, err := h.bomService.Consolidate(ctx, projectID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"project_id":   projectID,
		"requirements": requirements,
	})
}

// GenerateOrders handles project demand-to-order generation
func (h *BOMHandlers) GenerateOrders(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.Param("projectId"), "project id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req services.GenerateOrdersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	orders, err := h.demandService.GenerateForProject(ctx, projectID, &req)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"project_id": projectID,
		"orders":     orders,
	})
}
