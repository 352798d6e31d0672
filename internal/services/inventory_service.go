package services

import (
	"context"
	"log"
	"time"

	"matflow/internal/caching"
	"matflow/internal/common"
	"matflow/internal/models"
	"matflow/internal/repositories"

	"github.com/google/uuid"
)

// StockAdjustment describes one signed stock mutation and its ledger context.
type StockAdjustment struct {
	Delta     int
	Reason    models.MovementReason
	Actor     string
	Note      *string
	ProjectID *uuid.UUID
	ElementID *uuid.UUID
	OrderID   *uuid.UUID
}

// InventoryService owns mutable stock state. Every stock mutation commits
// together with exactly one movement-ledger entry; writes are serialized per
// material.
type InventoryService interface {
	AddToWarehouse(ctx context.Context, materialID uuid.UUID, initialStock int, location *string, actor string) (*models.InventoryRecord, error)
	GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error)
	ListByStatus(ctx context.Context, status models.StockStatus) ([]*models.InventoryRecord, error)
	SetStock(ctx context.Context, materialID uuid.UUID, newStock int, actor string) (*models.InventoryRecord, error)
	AdjustStock(ctx context.Context, materialID uuid.UUID, adj StockAdjustment) (*models.InventoryRecord, error)
	Reserve(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error)
	Release(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error)
	RemoveFromWarehouse(ctx context.Context, materialID uuid.UUID) error
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	materialRepo  repositories.MaterialRepository
	cacheService  caching.CacheService
	locks         *common.KeyMutex
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, materialRepo repositories.MaterialRepository, cacheService caching.CacheService) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		materialRepo:  materialRepo,
		cacheService:  cacheService,
		locks:         common.NewKeyMutex(),
	}
}

// Inventory changes frequently; keep the TTL short.
const inventoryCacheTTL = 5 * time.Minute

func (s *inventoryService) AddToWarehouse(ctx context.Context, materialID uuid.UUID, initialStock int, location *string, actor string) (*models.InventoryRecord, error) {
	if initialStock < 0 {
		return nil, common.InvalidArgumentf("initial stock must not be negative")
	}
	// The material must exist in the catalog before it can be stocked.
	if _, err := s.materialRepo.GetByID(ctx, materialID); err != nil {
		return nil, err
	}

	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)

	if existing, err := s.inventoryRepo.GetByMaterial(ctx, materialID); err == nil && existing != nil {
		return nil, common.ErrAlreadyStocked
	}

	rec := models.NewInventoryRecord(materialID, initialStock, location)
	// The record and its opening IN movement commit together; an empty
	// record gets no ledger entry.
	var mv *models.StockMovement
	if initialStock > 0 {
		mv = &models.StockMovement{
			ID:         uuid.New(),
			MaterialID: materialID,
			Delta:      initialStock,
			Reason:     models.MovementIn,
			Actor:      actor,
			Note:       common.StringPtr("initial warehouse stock"),
		}
	}
	if err := s.inventoryRepo.CreateWithMovement(ctx, rec, mv); err != nil {
		return nil, err
	}

	s.invalidateInventory(ctx, materialID)
	return rec, nil
}

func (s *inventoryService) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	if cached, err := s.cacheService.GetInventory(ctx, materialID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for inventory %s: %v", materialID, err)
	}

	rec, err := s.inventoryRepo.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetInventory(ctx, rec, inventoryCacheTTL); cacheErr != nil {
		log.Printf("failed to cache inventory %s: %v", materialID, cacheErr)
	}

	return rec, nil
}

func (s *inventoryService) List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error) {
	return s.inventoryRepo.List(ctx, limit, offset)
}

func (s *inventoryService) ListByStatus(ctx context.Context, status models.StockStatus) ([]*models.InventoryRecord, error) {
	if !status.Valid() {
		return nil, common.InvalidArgumentf("unknown stock status %q", status)
	}
	all, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*models.InventoryRecord
	for _, rec := range all {
		if rec.StockStatus() == status {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// SetStock replaces the stored stock level. The implied delta is recorded as
// an ADJUSTMENT movement.
func (s *inventoryService) SetStock(ctx context.Context, materialID uuid.UUID, newStock int, actor string) (*models.InventoryRecord, error) {
	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)
	return s.applyStock(ctx, materialID, func(current int) int { return newStock }, StockAdjustment{
		Reason: models.MovementAdjustment,
		Actor:  actor,
	})
}

// AdjustStock applies a signed delta on top of the current stock and appends
// the movement with the caller's reason and linkage.
func (s *inventoryService) AdjustStock(ctx context.Context, materialID uuid.UUID, adj StockAdjustment) (*models.InventoryRecord, error) {
	if !adj.Reason.Valid() {
		return nil, common.InvalidArgumentf("unknown movement reason %q", adj.Reason)
	}
	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)
	return s.applyStock(ctx, materialID, func(current int) int { return current + adj.Delta }, adj)
}

// applyStock is the single read-modify-write path for stock levels. Stock is
// clamped at zero, available is re-derived, and the mutation plus its ledger
// entry commit in one transaction. Callers hold the material lock.
func (s *inventoryService) applyStock(ctx context.Context, materialID uuid.UUID, next func(current int) int, adj StockAdjustment) (*models.InventoryRecord, error) {
	rec, err := s.inventoryRepo.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	newStock := next(rec.CurrentStock)
	if newStock < 0 {
		newStock = 0 // negative stock is never observable
	}
	delta := newStock - rec.CurrentStock

	rec.CurrentStock = newStock
	rec.RecomputeAvailable()

	if delta == 0 {
		// Nothing changed; do not pollute the ledger.
		return rec, nil
	}

	mv := &models.StockMovement{
		ID:         uuid.New(),
		MaterialID: materialID,
		Delta:      delta,
		Reason:     adj.Reason,
		ProjectID:  adj.ProjectID,
		ElementID:  adj.ElementID,
		OrderID:    adj.OrderID,
		Actor:      adj.Actor,
		Note:       adj.Note,
	}
	if err := s.inventoryRepo.SaveWithMovement(ctx, rec, mv); err != nil {
		return nil, err
	}

	s.invalidateInventory(ctx, materialID)
	return rec, nil
}

func (s *inventoryService) Reserve(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, common.InvalidArgumentf("reserve quantity must be positive")
	}
	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)

	rec, err := s.inventoryRepo.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if rec.AvailableQuantity < quantity {
		return nil, common.ErrInsufficientStock
	}

	rec.ReservedQuantity += quantity
	rec.RecomputeAvailable()
	if err := s.inventoryRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.invalidateInventory(ctx, materialID)
	return rec, nil
}

func (s *inventoryService) Release(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, common.InvalidArgumentf("release quantity must be positive")
	}
	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)

	rec, err := s.inventoryRepo.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	rec.ReservedQuantity -= quantity
	if rec.ReservedQuantity < 0 {
		rec.ReservedQuantity = 0
	}
	rec.RecomputeAvailable()
	if err := s.inventoryRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.invalidateInventory(ctx, materialID)
	return rec, nil
}

// RemoveFromWarehouse deletes the inventory record only. The catalog entry
// and the movement history stay.
func (s *inventoryService) RemoveFromWarehouse(ctx context.Context, materialID uuid.UUID) error {
	s.locks.Lock(materialID)
	defer s.locks.Unlock(materialID)

	if err := s.inventoryRepo.Delete(ctx, materialID); err != nil {
		return err
	}
	s.invalidateInventory(ctx, materialID)
	return nil
}

func (s *inventoryService) invalidateInventory(ctx context.Context, materialID uuid.UUID) {
	if cacheErr := s.cacheService.DeleteInventory(ctx, materialID); cacheErr != nil {
		log.Printf("failed to invalidate cache for inventory %s: %v", materialID, cacheErr)
	}
}
