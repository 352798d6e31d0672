package services

import (
	"context"
	"time"

	"matflow/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared by the service tests.

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) GetByCode(ctx context.Context, code string) (*models.Material, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Filter(ctx context.Context, filter *models.MaterialFilter) ([]*models.Material, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) CreateWithMovement(ctx context.Context, record *models.InventoryRecord, movement *models.StockMovement) error {
	args := m.Called(ctx, record, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) ListAll(ctx context.Context) ([]*models.InventoryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) SaveWithMovement(ctx context.Context, record *models.InventoryRecord, movement *models.StockMovement) error {
	args := m.Called(ctx, record, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) Save(ctx context.Context, record *models.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movement *models.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) Query(ctx context.Context, filter *models.MovementFilter) ([]*models.StockMovement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) SumDeltas(ctx context.Context, materialID uuid.UUID) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) ReplaceForElement(ctx context.Context, elementID uuid.UUID, lines []*models.BOMLine) error {
	args := m.Called(ctx, elementID, lines)
	return args.Error(0)
}

func (m *MockBOMRepository) ListByElement(ctx context.Context, elementID uuid.UUID) ([]*models.BOMLine, error) {
	args := m.Called(ctx, elementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BOMLine), args.Error(1)
}

func (m *MockBOMRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.BOMLine, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BOMLine), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.MaterialOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) error {
	args := m.Called(ctx, id, expected, target)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) error {
	args := m.Called(ctx, id, supplier, trackingRef)
	return args.Error(0)
}

func (m *MockOrderRepository) HasOpenOrder(ctx context.Context, materialID uuid.UUID, projectID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, materialID, projectID)
	return args.Bool(0), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockCacheService) SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error {
	args := m.Called(ctx, material, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockCacheService) GetInventory(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockCacheService) SetInventory(ctx context.Context, record *models.InventoryRecord, ttl time.Duration) error {
	args := m.Called(ctx, record, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteInventory(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
