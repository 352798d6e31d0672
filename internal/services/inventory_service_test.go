package services

import (
	"context"
	"testing"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	mockInventoryRepo *MockInventoryRepository
	mockMaterialRepo  *MockMaterialRepository
	mockCache         *MockCacheService
	service           InventoryService
	materialID        uuid.UUID
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockInventoryRepo = &MockInventoryRepository{}
	suite.mockMaterialRepo = &MockMaterialRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewInventoryService(suite.mockInventoryRepo, suite.mockMaterialRepo, suite.mockCache)
	suite.materialID = uuid.New()
}

func (suite *InventoryServiceTestSuite) TearDownTest() {
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockMaterialRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func (suite *InventoryServiceTestSuite) record(current, reserved int) *models.InventoryRecord {
	rec := models.NewInventoryRecord(suite.materialID, current, nil)
	rec.ReservedQuantity = reserved
	rec.RecomputeAvailable()
	return rec
}

func (suite *InventoryServiceTestSuite) TestAddToWarehouse_ComputesDefaults() {
	material := &models.Material{ID: suite.materialID, Code: "MDF-18"}
	suite.mockMaterialRepo.On("GetByID", mock.Anything, suite.materialID).Return(material, nil).Once()
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(nil, common.NotFoundf("not stocked")).Once()
	suite.mockInventoryRepo.On("CreateWithMovement", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.AddToWarehouse(context.Background(), suite.materialID, 100, nil, "tester")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 100, rec.CurrentStock)
	assert.Equal(suite.T(), 100, rec.AvailableQuantity)
	assert.Equal(suite.T(), 20, rec.MinStockLevel)
	assert.Equal(suite.T(), 200, rec.MaxStockLevel)
	assert.Equal(suite.T(), 30, rec.ReorderPoint)
	assert.Equal(suite.T(), 7, rec.LeadTimeDays)
	assert.Equal(suite.T(), models.ABCClassA, rec.ABCClass)

	// The opening IN movement rides the same repo call as the record so
	// both commit in one transaction.
	mv := suite.mockInventoryRepo.Calls[1].Arguments.Get(2).(*models.StockMovement)
	assert.Equal(suite.T(), 100, mv.Delta)
	assert.Equal(suite.T(), models.MovementIn, mv.Reason)
}

func (suite *InventoryServiceTestSuite) TestAddToWarehouse_ZeroStockSkipsLedger() {
	material := &models.Material{ID: suite.materialID}
	suite.mockMaterialRepo.On("GetByID", mock.Anything, suite.materialID).Return(material, nil).Once()
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(nil, common.NotFoundf("not stocked")).Once()
	suite.mockInventoryRepo.On("CreateWithMovement", mock.Anything, mock.Anything, (*models.StockMovement)(nil)).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.AddToWarehouse(context.Background(), suite.materialID, 0, nil, "tester")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, rec.CurrentStock)
}

func (suite *InventoryServiceTestSuite) TestAddToWarehouse_AlreadyStocked() {
	material := &models.Material{ID: suite.materialID}
	suite.mockMaterialRepo.On("GetByID", mock.Anything, suite.materialID).Return(material, nil).Once()
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(10, 0), nil).Once()

	_, err := suite.service.AddToWarehouse(context.Background(), suite.materialID, 5, nil, "tester")

	assert.ErrorIs(suite.T(), err, common.ErrAlreadyStocked)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_AppendsOneMovement() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(50, 0), nil).Once()
	suite.mockInventoryRepo.On("SaveWithMovement", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.AdjustStock(context.Background(), suite.materialID, StockAdjustment{
		Delta:  -12,
		Reason: models.MovementOut,
		Actor:  "tester",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 38, rec.CurrentStock)
	assert.Equal(suite.T(), 38, rec.AvailableQuantity)

	mv := suite.mockInventoryRepo.Calls[1].Arguments.Get(2).(*models.StockMovement)
	assert.Equal(suite.T(), -12, mv.Delta)
	assert.Equal(suite.T(), models.MovementOut, mv.Reason)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ClampsAtZero() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(5, 0), nil).Once()
	suite.mockInventoryRepo.On("SaveWithMovement", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.AdjustStock(context.Background(), suite.materialID, StockAdjustment{
		Delta:  -20,
		Reason: models.MovementOut,
		Actor:  "tester",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, rec.CurrentStock)

	// The ledger records the applied delta, not the requested one.
	mv := suite.mockInventoryRepo.Calls[1].Arguments.Get(2).(*models.StockMovement)
	assert.Equal(suite.T(), -5, mv.Delta)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ZeroDeltaSkipsLedger() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(50, 0), nil).Once()

	rec, err := suite.service.AdjustStock(context.Background(), suite.materialID, StockAdjustment{
		Delta:  0,
		Reason: models.MovementAdjustment,
		Actor:  "tester",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, rec.CurrentStock)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "SaveWithMovement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_UnknownReason() {
	_, err := suite.service.AdjustStock(context.Background(), suite.materialID, StockAdjustment{
		Delta:  5,
		Reason: "SHRINKAGE",
		Actor:  "tester",
	})

	assert.ErrorIs(suite.T(), err, common.ErrInvalidArgument)
}

func (suite *InventoryServiceTestSuite) TestSetStock_RecordsAdjustmentDelta() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(40, 0), nil).Once()
	suite.mockInventoryRepo.On("SaveWithMovement", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.SetStock(context.Background(), suite.materialID, 55, "tester")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 55, rec.CurrentStock)

	mv := suite.mockInventoryRepo.Calls[1].Arguments.Get(2).(*models.StockMovement)
	assert.Equal(suite.T(), 15, mv.Delta)
	assert.Equal(suite.T(), models.MovementAdjustment, mv.Reason)
}

func (suite *InventoryServiceTestSuite) TestReserve_InsufficientStock() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(10, 5), nil).Once()

	_, err := suite.service.Reserve(context.Background(), suite.materialID, 6)

	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *InventoryServiceTestSuite) TestReserveAndRelease_RoundTrip() {
	rec := suite.record(10, 0)
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).Return(rec, nil).Twice()
	suite.mockInventoryRepo.On("Save", mock.Anything, rec).Return(nil).Twice()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Twice()

	reserved, err := suite.service.Reserve(context.Background(), suite.materialID, 4)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, reserved.ReservedQuantity)
	assert.Equal(suite.T(), 6, reserved.AvailableQuantity)

	released, err := suite.service.Release(context.Background(), suite.materialID, 4)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, released.ReservedQuantity)
	assert.Equal(suite.T(), 10, released.AvailableQuantity)
}

func (suite *InventoryServiceTestSuite) TestRelease_ClampsReservedAtZero() {
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).
		Return(suite.record(10, 2), nil).Once()
	suite.mockInventoryRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteInventory", mock.Anything, suite.materialID).Return(nil).Once()

	rec, err := suite.service.Release(context.Background(), suite.materialID, 9)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, rec.ReservedQuantity)
	assert.Equal(suite.T(), 10, rec.AvailableQuantity)
}

func (suite *InventoryServiceTestSuite) TestListByStatus_ClassifiesRecords() {
	low := models.NewInventoryRecord(uuid.New(), 100, nil)
	low.CurrentStock = 8 // below reorder point 30
	low.RecomputeAvailable()

	out := models.NewInventoryRecord(uuid.New(), 100, nil)
	out.CurrentStock = 0
	out.RecomputeAvailable()

	in := models.NewInventoryRecord(uuid.New(), 100, nil)

	suite.mockInventoryRepo.On("ListAll", mock.Anything).
		Return([]*models.InventoryRecord{low, out, in}, nil).Once()

	matched, err := suite.service.ListByStatus(context.Background(), models.StockStatusLow)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), matched, 1)
	assert.Equal(suite.T(), low.MaterialID, matched[0].MaterialID)
}

func (suite *InventoryServiceTestSuite) TestGetByMaterial_CacheHit() {
	rec := suite.record(10, 0)
	suite.mockCache.On("GetInventory", mock.Anything, suite.materialID).Return(rec, nil).Once()

	got, err := suite.service.GetByMaterial(context.Background(), suite.materialID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), rec, got)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "GetByMaterial", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestGetByMaterial_CacheMissFallsThrough() {
	rec := suite.record(10, 0)
	suite.mockCache.On("GetInventory", mock.Anything, suite.materialID).Return(nil, nil).Once()
	suite.mockInventoryRepo.On("GetByMaterial", mock.Anything, suite.materialID).Return(rec, nil).Once()
	suite.mockCache.On("SetInventory", mock.Anything, rec, inventoryCacheTTL).Return(nil).Once()

	got, err := suite.service.GetByMaterial(context.Background(), suite.materialID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), rec, got)
}
