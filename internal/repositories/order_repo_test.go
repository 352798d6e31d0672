package repositories

import (
	"context"
	"testing"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	orderID uuid.UUID
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_Success() {
	suite.mock.ExpectExec(`UPDATE material_orders`).
		WithArgs(models.OrderStatusOrdered, suite.orderID, models.OrderStatusToOrder).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.OrderStatusToOrder, models.OrderStatusOrdered)

	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_GuardRejectsStaleState() {
	// The order already left TO_ORDER; the guarded UPDATE matches nothing.
	suite.mock.ExpectExec(`UPDATE material_orders`).
		WithArgs(models.OrderStatusOrdered, suite.orderID, models.OrderStatusToOrder).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.OrderStatusToOrder, models.OrderStatusOrdered)

	assert.ErrorIs(suite.T(), err, common.ErrVersionConflict)
}

func (suite *OrderRepoTestSuite) TestUpdateTracking_NotFound() {
	supplier := "ACME Boards"
	suite.mock.ExpectExec(`UPDATE material_orders`).
		WithArgs(&supplier, (*string)(nil), suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateTracking(suite.context, suite.orderID, &supplier, nil)

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *OrderRepoTestSuite) TestHasOpenOrder() {
	materialID := uuid.New()
	projectID := uuid.New()

	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(materialID, &projectID, models.OrderStatusToOrder, models.OrderStatusOrdered).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	open, err := suite.repo.HasOpenOrder(suite.context, materialID, &projectID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), open)
}
