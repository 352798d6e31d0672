package handlers

import (
	"log"
	"net/http"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles material order lifecycle requests
type OrderHandlers struct {
	orderService     services.OrderService
	inventoryService services.InventoryService
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService, inventoryService services.InventoryService) *OrderHandlers {
	return &OrderHandlers{
		orderService:     orderService,
		inventoryService: inventoryService,
	}
}

// CreateOrder handles manual order creation
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orderService.Create(ctx, &req)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles single order lookups
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.HTTPError(err)
	}

	order, err := h.orderService.GetByID(ctx, orderID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// ListOrders handles filtered order listings
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.OrderFilter{}
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
	if raw := c.QueryParam("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid order status")
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("priority"); raw != "" {
		priority := models.OrderPriority(raw)
		if !priority.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid order priority")
		}
		filter.Priority = &priority
	}

	orders, err := h.orderService.List(ctx, filter)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

// UpdateOrderStatusRequest advances an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// UpdateOrderStatus handles lifecycle transitions. Moving an order into
// RECEIVED books the ordered quantity into the warehouse as an IN movement
// referencing the order.
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	target := models.OrderStatus(req.Status)
	if !target.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order status")
	}

	order, err := h.orderService.UpdateStatus(ctx, orderID, target)
	if err != nil {
		return common.HTTPError(err)
	}

	if target == models.OrderStatusReceived {
		delta := int(order.RequiredQuantity.Ceil().IntPart())
		if delta > 0 {
			note := "order receipt"
			if _, err := h.inventoryService.AdjustStock(ctx, order.MaterialID, services.StockAdjustment{
				Delta:     delta,
				Reason:    models.MovementIn,
				Actor:     req.Actor,
				Note:      &note,
				ProjectID: order.ProjectID,
				OrderID:   &order.ID,
			}); err != nil {
				// The transition itself is committed; receipt booking has to
				// be retried through a manual adjustment.
				log.Printf("failed to book receipt for order %s: %v", order.ID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, order)
}

// SetTrackingRequest records procurement metadata on an order
type SetTrackingRequest struct {
	Supplier    *string `json:"supplier,omitempty"`
	TrackingRef *string `json:"tracking_ref,omitempty"`
}

// SetTracking handles supplier and tracking reference updates
func (h *OrderHandlers) SetTracking(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.HTTPError(err)
	}

	var req SetTrackingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orderService.SetTracking(ctx, orderID, req.Supplier, req.TrackingRef)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder handles order cancellation
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.HTTPError(err)
	}

	order, err := h.orderService.Cancel(ctx, orderID)
	if err != nil {
		return common.HTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}
