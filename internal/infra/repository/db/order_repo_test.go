package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type OrderRepoTestSuite struct {
	suite.Suite
	db        *gorm.DB
	dao       *DbDao
	orderRepo *OrderRepo
	userRepo  *UserRepo
	user      *model.User
}

// SetupSuite 在測試套件開始前執行
func (suite *OrderRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_shop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	dao := NewDbDao(db)
	require.NoError(suite.T(), dao.InitMigrate())

	suite.db = db
	suite.dao = dao
	suite.orderRepo = NewOrderRepo(dao)
	suite.userRepo = NewUserRepo(dao)
}

// SetupTest 在每個測試前執行
func (suite *OrderRepoTestSuite) SetupTest() {
	// 清空資料表
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM users")

	suite.user = &model.User{
		UserName:  "Test User",
		UserEmail: "test@example.com",
	}
	require.NoError(suite.T(), suite.userRepo.CreateUser(context.Background(), suite.user))
}

// TearDownSuite 在測試套件結束後執行
func (suite *OrderRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *OrderRepoTestSuite) newOrder(number string) *model.Order {
	return &model.Order{
		OrderNumber: number,
		UserID:      &suite.user.UserID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.NewFromFloat(100.0),
		OrderDate:   time.Now(),
		OrderItems: []model.OrderItem{
			{
				ProductID:   1,
				ProductName: "Test Product",
				Quantity:    2,
				Price:       decimal.NewFromFloat(50.0),
				Subtotal:    decimal.NewFromFloat(100.0),
			},
		},
	}
}

func (suite *OrderRepoTestSuite) TestCreateOrder() {
	order := suite.newOrder("ORD-TEST0001")

	err := suite.orderRepo.CreateOrder(context.Background(), order)

	require.NoError(suite.T(), err)
	require.NotZero(suite.T(), order.OrderID)
	// 關聯的訂單項目一併寫入
	require.NotZero(suite.T(), order.OrderItems[0].OrderItemID)
}

func (suite *OrderRepoTestSuite) TestGetOrderByID() {
	order := suite.newOrder("ORD-TEST0001")
	suite.orderRepo.CreateOrder(context.Background(), order)

	foundOrder, err := suite.orderRepo.GetOrderByID(context.Background(), order.OrderID)

	require.NoError(suite.T(), err)
	require.Equal(suite.T(), order.OrderNumber, foundOrder.OrderNumber)
	require.Len(suite.T(), foundOrder.OrderItems, 1)
}

func (suite *OrderRepoTestSuite) TestGetOrderByID_NotFound() {
	foundOrder, err := suite.orderRepo.GetOrderByID(context.Background(), 99999)

	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
	require.Nil(suite.T(), foundOrder)
}

func (suite *OrderRepoTestSuite) TestGetOrderByNumber() {
	order := suite.newOrder("ORD-FINDME01")
	suite.orderRepo.CreateOrder(context.Background(), order)

	foundOrder, err := suite.orderRepo.GetOrderByNumber(context.Background(), "ORD-FINDME01")

	require.NoError(suite.T(), err)
	require.Equal(suite.T(), order.OrderID, foundOrder.OrderID)
}

func (suite *OrderRepoTestSuite) TestIsOrderNumberExists() {
	order := suite.newOrder("ORD-TEST0001")
	suite.orderRepo.CreateOrder(context.Background(), order)

	exists, err := suite.orderRepo.IsOrderNumberExists(context.Background(), "ORD-TEST0001")
	require.NoError(suite.T(), err)
	require.True(suite.T(), exists)

	exists, err = suite.orderRepo.IsOrderNumberExists(context.Background(), "ORD-NOTEXIST")
	require.NoError(suite.T(), err)
	require.False(suite.T(), exists)
}

func (suite *OrderRepoTestSuite) TestGetOrdersByUserID() {
	suite.orderRepo.CreateOrder(context.Background(), suite.newOrder("ORD-TEST0001"))
	suite.orderRepo.CreateOrder(context.Background(), suite.newOrder("ORD-TEST0002"))

	orders, err := suite.orderRepo.GetOrdersByUserID(context.Background(), suite.user.UserID)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 2)
}

func (suite *OrderRepoTestSuite) TestUpdateOrderTx() {
	order := suite.newOrder("ORD-TEST0001")
	suite.orderRepo.CreateOrder(context.Background(), order)

	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		order.Status = model.OrderStatusProcessing
		return suite.orderRepo.UpdateOrderTx(tx, order)
	})
	require.NoError(suite.T(), err)

	updated, _ := suite.orderRepo.GetOrderByID(context.Background(), order.OrderID)
	require.Equal(suite.T(), model.OrderStatusProcessing, updated.Status)
}

func (suite *OrderRepoTestSuite) TestOrderItemTxLifecycle() {
	order := suite.newOrder("ORD-TEST0001")
	suite.orderRepo.CreateOrder(context.Background(), order)

	// 新增項目
	newItem := &model.OrderItem{
		OrderID:     order.OrderID,
		ProductID:   2,
		ProductName: "Another Product",
		Quantity:    1,
		Price:       decimal.NewFromFloat(30.0),
		Subtotal:    decimal.NewFromFloat(30.0),
	}
	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		return suite.orderRepo.CreateOrderItemTx(tx, newItem)
	})
	require.NoError(suite.T(), err)

	var items []model.OrderItem
	err = suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		var err error
		items, err = suite.orderRepo.GetOrderItemsTx(tx, order.OrderID)
		return err
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 2)

	// 刪除項目
	err = suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		return suite.orderRepo.DeleteOrderItemTx(tx, newItem.OrderItemID)
	})
	require.NoError(suite.T(), err)

	err = suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		var err error
		items, err = suite.orderRepo.GetOrderItemsTx(tx, order.OrderID)
		return err
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
}

func (suite *OrderRepoTestSuite) TestHardDeleteOrderTx() {
	order := suite.newOrder("ORD-TEST0001")
	suite.orderRepo.CreateOrder(context.Background(), order)

	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		return suite.orderRepo.HardDeleteOrderTx(tx, order.OrderID)
	})
	require.NoError(suite.T(), err)

	foundOrder, err := suite.orderRepo.GetOrderByID(context.Background(), order.OrderID)
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
	require.Nil(suite.T(), foundOrder)

	// 訂單項目一併刪除
	var count int64
	suite.db.Model(&model.OrderItem{}).Where("order_id = ?", order.OrderID).Count(&count)
	require.Zero(suite.T(), count)
}

func (suite *OrderRepoTestSuite) TestGetOrdersPaginatedWithCondition() {
	for i := 1; i <= 5; i++ {
		order := suite.newOrder(fmt.Sprintf("ORD-TEST%04d", i))
		if i <= 2 {
			order.Status = model.OrderStatusCompleted
		}
		suite.orderRepo.CreateOrder(context.Background(), order)
	}

	orders, total, err := suite.orderRepo.GetOrdersPaginatedWithCondition(
		context.Background(), 1, 10,
		map[string]interface{}{"status": model.OrderStatusCompleted},
	)

	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(2), total)
	require.Len(suite.T(), orders, 2)
}

// 執行測試套件
func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}
