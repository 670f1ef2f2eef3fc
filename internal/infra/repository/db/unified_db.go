package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
)

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	LockProductForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error)
	AdjustStockTx(tx *gorm.DB, product *model.Product, delta int) error
	GetActiveProducts(ctx context.Context) ([]model.Product, error)
	GetProductsInStock(ctx context.Context) ([]model.Product, error)
	SearchProductsByName(ctx context.Context, name string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	GetLowStockProducts(ctx context.Context, threshold uint) ([]model.Product, error)
	GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error)
	CreateProductsBatch(ctx context.Context, products []model.Product) error
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	CreateOrderTx(tx *gorm.DB, order *model.Order) error
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetOrderByIDTx(tx *gorm.DB, id uint) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*model.Order, error)
	IsOrderNumberExists(ctx context.Context, number string) (bool, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order *model.Order) error
	UpdateOrderTx(tx *gorm.DB, order *model.Order) error
	CreateOrderItemTx(tx *gorm.DB, item *model.OrderItem) error
	UpdateOrderItemTx(tx *gorm.DB, item *model.OrderItem) error
	DeleteOrderItemTx(tx *gorm.DB, itemID uint) error
	GetOrderItemsTx(tx *gorm.DB, orderID uint) ([]model.OrderItem, error)
	HardDeleteOrderTx(tx *gorm.DB, orderID uint) error
	GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	GetOrdersPaginatedWithCondition(ctx context.Context, page, pageSize int, condition map[string]interface{}) ([]model.Order, int64, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

var (
	_ IProductRepository = (*ProductRepo)(nil)
	_ IOrderRepository   = (*OrderRepo)(nil)
	_ IUserRepository    = (*UserRepo)(nil)
)
