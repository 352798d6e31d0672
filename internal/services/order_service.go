package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is a manual order creation request.
type CreateOrderRequest struct {
	MaterialID  uuid.UUID            `json:"material_id"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Unit        string               `json:"unit"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	RequestedBy string               `json:"requested_by"`
	Priority    models.OrderPriority `json:"priority"`
	Notes       *string              `json:"notes,omitempty"`
}

// OrderService creates material orders and drives their lifecycle. Status
// moves only along TO_ORDER -> ORDERED -> RECEIVED -> USED, with CANCELLED
// reachable from the first two states.
type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*models.MaterialOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error)
	List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.MaterialOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error)
	SetTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) (*models.MaterialOrder, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	materialRepo repositories.MaterialRepository
}

func NewOrderService(orderRepo repositories.OrderRepository, materialRepo repositories.MaterialRepository) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		materialRepo: materialRepo,
	}
}

func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.MaterialOrder, error) {
	if !req.Quantity.IsPositive() {
		return nil, common.InvalidArgumentf("quantity must be positive")
	}
	if err := common.ValidateRequiredString(req.RequestedBy, "requested_by"); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, common.InvalidArgumentf("unknown priority %q", req.Priority)
	}

	material, err := s.materialRepo.GetByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = material.Unit
	}

	order := &models.MaterialOrder{
		ID:               uuid.New(),
		MaterialID:       req.MaterialID,
		RequiredQuantity: req.Quantity,
		Unit:             unit,
		ProjectID:        req.ProjectID,
		RequestedBy:      req.RequestedBy,
		RequestedAt:      time.Now(),
		Status:           models.OrderStatusToOrder,
		Priority:         req.Priority,
		EstimatedCost:    req.Quantity.Mul(material.UnitCost),
		Currency:         material.Currency,
		Notes:            req.Notes,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error) {
	if filter == nil {
		filter = &models.OrderFilter{}
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, common.InvalidArgumentf("unknown order status %q", *filter.Status)
	}
	return s.orderRepo.List(ctx, filter)
}

// UpdateStatus validates the transition against the state graph, then applies
// it with a status-guarded UPDATE. A concurrent transition that wins the race
// surfaces as ErrInvalidTransition; the order is left unchanged either way.
// Inventory is not touched here: the RECEIVED receipt is the caller's job.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.MaterialOrder, error) {
	if !target.Valid() {
		return nil, common.InvalidArgumentf("unknown order status %q", target)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", id, order.Status, target, common.ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, target); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, fmt.Errorf("order %s: concurrent status change: %w", id, common.ErrInvalidTransition)
		}
		return nil, err
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	return order, nil
}

// Cancel is sugar for the CANCELLED transition; the same graph rules apply,
// so received or used orders cannot be cancelled.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	return s.UpdateStatus(ctx, id, models.OrderStatusCancelled)
}

// SetTracking records supplier and tracking reference on an open order.
func (s *orderService) SetTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) (*models.MaterialOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s: tracking update on %s order: %w", id, order.Status, common.ErrInvalidTransition)
	}
	if err := s.orderRepo.UpdateTracking(ctx, id, supplier, trackingRef); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, id)
}
