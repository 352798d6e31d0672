package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"matflow/internal/models"
	"matflow/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, req *services.CreateOrderRequest) (*models.MaterialOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus) (*models.MaterialOrder, error) {
	args := m.Called(ctx, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

func (m *MockOrderService) SetTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) (*models.MaterialOrder, error) {
	args := m.Called(ctx, id, supplier, trackingRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaterialOrder), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AddToWarehouse(ctx context.Context, materialID uuid.UUID, initialStock int, location *string, actor string) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID, initialStock, location, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) ListByStatus(ctx context.Context, status models.StockStatus) ([]*models.InventoryRecord, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) SetStock(ctx context.Context, materialID uuid.UUID, newStock int, actor string) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID, newStock, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) AdjustStock(ctx context.Context, materialID uuid.UUID, adj services.StockAdjustment) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) Reserve(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) Release(ctx context.Context, materialID uuid.UUID, quantity int) (*models.InventoryRecord, error) {
	args := m.Called(ctx, materialID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) RemoveFromWarehouse(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func statusRequest(t *testing.T, orderID uuid.UUID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/orders/"+orderID.String()+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/orders/:id/status")
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())
	return c, rec
}

func TestUpdateOrderStatus_ReceivedBooksStockIn(t *testing.T) {
	orderSvc := &MockOrderService{}
	inventorySvc := &MockInventoryService{}
	h := NewOrderHandlers(orderSvc, inventorySvc)

	orderID := uuid.New()
	materialID := uuid.New()
	order := &models.MaterialOrder{
		ID:               orderID,
		MaterialID:       materialID,
		RequiredQuantity: decimal.NewFromInt(25),
		Status:           models.OrderStatusReceived,
	}

	orderSvc.On("UpdateStatus", mock.Anything, orderID, models.OrderStatusReceived).Return(order, nil).Once()
	inventorySvc.On("AdjustStock", mock.Anything, materialID, mock.MatchedBy(func(adj services.StockAdjustment) bool {
		return adj.Delta == 25 && adj.Reason == models.MovementIn && adj.OrderID != nil && *adj.OrderID == orderID
	})).Return(models.NewInventoryRecord(materialID, 25, nil), nil).Once()

	c, rec := statusRequest(t, orderID, `{"status":"RECEIVED","actor":"warehouse"}`)

	assert.NoError(t, h.UpdateOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	orderSvc.AssertExpectations(t)
	inventorySvc.AssertExpectations(t)
}

func TestUpdateOrderStatus_OrderedDoesNotTouchInventory(t *testing.T) {
	orderSvc := &MockOrderService{}
	inventorySvc := &MockInventoryService{}
	h := NewOrderHandlers(orderSvc, inventorySvc)

	orderID := uuid.New()
	order := &models.MaterialOrder{
		ID:               orderID,
		MaterialID:       uuid.New(),
		RequiredQuantity: decimal.NewFromInt(25),
		Status:           models.OrderStatusOrdered,
	}
	orderSvc.On("UpdateStatus", mock.Anything, orderID, models.OrderStatusOrdered).Return(order, nil).Once()

	c, rec := statusRequest(t, orderID, `{"status":"ORDERED","actor":"buyer"}`)

	assert.NoError(t, h.UpdateOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	inventorySvc.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestListOrders_RejectsUnknownPriority(t *testing.T) {
	orderSvc := &MockOrderService{}
	h := NewOrderHandlers(orderSvc, &MockInventoryService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/orders?priority=urgent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListOrders(c)
	if assert.Error(t, err) {
		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}
	}
	orderSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewOrderHandlers(&MockOrderService{}, &MockInventoryService{})

	c, _ := statusRequest(t, uuid.New(), `{"status":"SHIPPED"}`)

	err := h.UpdateOrderStatus(c)
	if assert.Error(t, err) {
		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}
	}
}
