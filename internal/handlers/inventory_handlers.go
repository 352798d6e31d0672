package handlers

import (
	"net/http"
	"strconv"
	"time"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"
	"matflow/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles warehouse stock and movement ledger requests
type InventoryHandlers struct {
	inventoryService services.InventoryService
	movementRepo     repositories.MovementRepository
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService, movementRepo repositories.MovementRepository) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		movementRepo:     movementRepo,
	}
}

// AddToWarehouseRequest registers a material in the warehouse
type AddToWarehouseRequest struct {
	MaterialID   uuid.UUID `json:"material_id"`
	InitialStock int       `json:"initial_stock"`
	Location     *string   `json:"location,omitempty"`
	Actor        string    `json:"actor"`
}

// AddToWarehouse handles warehouse registration requests
func (h *InventoryHandlers) AddToWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	var req AddToWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.MaterialID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "material_id is required")
	}

	record, err := h.inventoryService.AddToWarehouse(ctx, req.MaterialID, req.InitialStock, req.Location, req.Actor)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusCreated, record)
}

// GetInventory handles single-material inventory lookups
func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	record, err := h.inventoryService.GetByMaterial(ctx, materialID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// ListInventory handles paginated inventory listings
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	records, err := h.inventoryService.List(ctx, limit, offset)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": records,
	})
}

// ListInventoryByStatus handles availability class sweeps (in-stock, low-stock,
// out-of-stock, excess)
func (h *InventoryHandlers) ListInventoryByStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status := models.StockStatus(c.Param("class"))
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid availability class")
	}

	records, err := h.inventoryService.ListByStatus(ctx, status)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"class":   status,
		"records": records,
	})
}

// SetStockRequest sets the absolute stock level of a material
type SetStockRequest struct {
	Stock int    `json:"stock"`
	Actor string `json:"actor"`
}

// SetStock handles absolute stock updates
func (h *InventoryHandlers) SetStock(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, err := h.inventoryService.SetStock(ctx, materialID, req.Stock, req.Actor)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// AdjustStockRequest applies a signed stock delta with ledger context
type AdjustStockRequest struct {
	Delta     int        `json:"delta"`
	Reason    string     `json:"reason"`
	Actor     string     `json:"actor"`
	Note      *string    `json:"note,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	ElementID *uuid.UUID `json:"element_id,omitempty"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
}

// AdjustStock handles signed stock deltas
func (h *InventoryHandlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	reason := models.MovementReason(req.Reason)
	if !reason.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid movement reason")
	}

	record, err := h.inventoryService.AdjustStock(ctx, materialID, services.StockAdjustment{
		Delta:     req.Delta,
		Reason:    reason,
		Actor:     req.Actor,
		Note:      req.Note,
		ProjectID: req.ProjectID,
		ElementID: req.ElementID,
		OrderID:   req.OrderID,
	})
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// ReservationRequest reserves or releases project stock
type ReservationRequest struct {
	Quantity int `json:"quantity"`
}

// ReserveStock handles stock reservations
func (h *InventoryHandlers) ReserveStock(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, err := h.inventoryService.Reserve(ctx, materialID, req.Quantity)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// ReleaseStock handles reservation releases
func (h *InventoryHandlers) ReleaseStock(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, err := h.inventoryService.Release(ctx, materialID, req.Quantity)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// RemoveFromWarehouse handles warehouse deregistration
func (h *InventoryHandlers) RemoveFromWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	if err := h.inventoryService.RemoveFromWarehouse(ctx, materialID); err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Material removed from warehouse",
	})
}

// ListMovements handles movement ledger queries
func (h *InventoryHandlers) ListMovements(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	filter := &models.MovementFilter{}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(limit, offset)

	if raw := c.QueryParam("material_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "material id")
		if err != nil {
			return common.HTTPError(err)
		}
		filter.MaterialID = &id
	}
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "project id")
		if err != nil {
			return common.HTTPError(err)
		}
		filter.ProjectID = &id
	}
	if raw := c.QueryParam("reason"); raw != "" {
		reason := models.MovementReason(raw)
		if !reason.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid movement reason")
		}
		filter.Reason = &reason
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid from timestamp, expected RFC3339")
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid to timestamp, expected RFC3339")
		}
		filter.To = &to
	}

	movements, err := h.movementRepo.Query(ctx, filter)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
	})
}

// ReconcileMovements compares the ledger sum against the stored stock value
func (h *InventoryHandlers) ReconcileMovements(c echo.Context) error {
	ctx := c.Request().Context()

	materialID, err := common.ValidateUUID(c.Param("materialId"), "material id")
	if err != nil {
		return common.HTTPError(err)
	}

	record, err := h.inventoryService.GetByMaterial(ctx, materialID)
	if err != nil {
		return common.HTTPError(err)
	}
	ledgerSum, err := h.movementRepo.SumDeltas(ctx, materialID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"material_id":   materialID,
		"current_stock": record.CurrentStock,
		"ledger_sum":    ledgerSum,
		"consistent":    int64(record.CurrentStock) == ledgerSum,
	})
}
