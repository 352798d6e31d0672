package services

import (
	"context"
	"errors"
	"log"
	"time"

	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateOrdersRequest parametrizes a demand generation run.
type GenerateOrdersRequest struct {
	RequestedBy string               `json:"requested_by"`
	Priority    models.OrderPriority `json:"priority"`
	// Force creates orders for the full consolidated requirement even when
	// stock covers it, and bypasses the open-order dedupe.
	Force bool `json:"force"`
}

// DemandService turns consolidated project demand into material orders.
// Ordering is a commitment, not a receipt: no inventory is mutated here.
type DemandService interface {
	GenerateForProject(ctx context.Context, projectID uuid.UUID, req *GenerateOrdersRequest) ([]*models.MaterialOrder, error)
	// GenerateReplenishment creates project-less top-up orders for every
	// material at or below its reorder point.
	GenerateReplenishment(ctx context.Context, requestedBy string) ([]*models.MaterialOrder, error)
}

type demandService struct {
	bomService    BOMService
	inventoryRepo repositories.InventoryRepository
	orderRepo     repositories.OrderRepository
	materialRepo  repositories.MaterialRepository
}

func NewDemandService(bomService BOMService, inventoryRepo repositories.InventoryRepository,
	orderRepo repositories.OrderRepository, materialRepo repositories.MaterialRepository) DemandService {
	return &demandService{
		bomService:    bomService,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		materialRepo:  materialRepo,
	}
}

func (s *demandService) GenerateForProject(ctx context.Context, projectID uuid.UUID, req *GenerateOrdersRequest) ([]*models.MaterialOrder, error) {
	if err := common.ValidateRequiredString(req.RequestedBy, "requested_by"); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, common.InvalidArgumentf("unknown priority %q", req.Priority)
	}

	requirements, err := s.bomService.Consolidate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var created []*models.MaterialOrder
	for _, requirement := range requirements {
		order, err := s.generateForRequirement(ctx, projectID, requirement, req)
		if err != nil {
			return nil, err
		}
		if order != nil {
			created = append(created, order)
		}
	}
	return created, nil
}

func (s *demandService) generateForRequirement(ctx context.Context, projectID uuid.UUID,
	requirement models.ConsolidatedRequirement, req *GenerateOrdersRequest) (*models.MaterialOrder, error) {

	available := decimal.Zero
	rec, err := s.inventoryRepo.GetByMaterial(ctx, requirement.MaterialID)
	switch {
	case err == nil:
		available = decimal.NewFromInt(int64(rec.AvailableQuantity))
	case errors.Is(err, common.ErrNotFound):
		// Never stocked: the whole requirement is a shortfall.
	default:
		return nil, err
	}

	shortfall := requirement.RequiredQuantity.Sub(available)
	if !req.Force && !shortfall.IsPositive() {
		return nil, nil // stock covers the requirement
	}

	orderQty := shortfall
	if req.Force {
		orderQty = requirement.RequiredQuantity
	} else {
		// Dedupe: an open order for this material/project already covers the
		// shortfall; repeated consolidation runs must not stack orders.
		open, err := s.orderRepo.HasOpenOrder(ctx, requirement.MaterialID, &projectID)
		if err != nil {
			return nil, err
		}
		if open {
			log.Printf("demand: open order exists for material %s project %s, skipping", requirement.MaterialID, projectID)
			return nil, nil
		}
	}

	material, err := s.materialRepo.GetByID(ctx, requirement.MaterialID)
	if err != nil {
		return nil, err
	}

	pid := projectID
	order := &models.MaterialOrder{
		ID:               uuid.New(),
		MaterialID:       requirement.MaterialID,
		RequiredQuantity: orderQty,
		Unit:             requirement.Unit,
		ProjectID:        &pid,
		RequestedBy:      req.RequestedBy,
		RequestedAt:      time.Now(),
		Status:           models.OrderStatusToOrder,
		Priority:         req.Priority,
		EstimatedCost:    orderQty.Mul(material.UnitCost),
		Currency:         material.Currency,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *demandService) GenerateReplenishment(ctx context.Context, requestedBy string) ([]*models.MaterialOrder, error) {
	if err := common.ValidateRequiredString(requestedBy, "requested_by"); err != nil {
		return nil, err
	}

	records, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var created []*models.MaterialOrder
	for _, rec := range records {
		status := rec.StockStatus()
		if status != models.StockStatusLow && status != models.StockStatusOut {
			continue
		}

		open, err := s.orderRepo.HasOpenOrder(ctx, rec.MaterialID, nil)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}

		material, err := s.materialRepo.GetByID(ctx, rec.MaterialID)
		if err != nil {
			return nil, err
		}

		// Top up to the max stock level.
		qty := decimal.NewFromInt(int64(rec.MaxStockLevel - rec.AvailableQuantity))
		if !qty.IsPositive() {
			continue
		}

		priority := models.PriorityMedium
		if status == models.StockStatusOut {
			priority = models.PriorityHigh
		}

		order := &models.MaterialOrder{
			ID:               uuid.New(),
			MaterialID:       rec.MaterialID,
			RequiredQuantity: qty,
			Unit:             material.Unit,
			RequestedBy:      requestedBy,
			RequestedAt:      time.Now(),
			Status:           models.OrderStatusToOrder,
			Priority:         priority,
			EstimatedCost:    qty.Mul(material.UnitCost),
			Currency:         material.Currency,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, err
		}
		created = append(created, order)
	}
	return created, nil
}
