package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// CreateOrderTx 在tx內創建訂單
func (s *OrderRepo) CreateOrderTx(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderByIDTx 在tx內根據ID查詢訂單（含訂單項目）
func (s *OrderRepo) GetOrderByIDTx(tx *gorm.DB, id uint) (*model.Order, error) {
	var order model.Order
	err := tx.Preload("OrderItems").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Read - 根據訂單編號查詢
func (s *OrderRepo) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("order_number = ?", number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// IsOrderNumberExists 訂單編號是否已存在，產生訂單編號時檢查碰撞用
func (s *OrderRepo) IsOrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ?", number).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單
func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").Find(&orders).Error
	return orders, err
}

// Update - 更新訂單
func (s *OrderRepo) UpdateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Save(order).Error
}

// UpdateOrderTx 在tx內更新訂單主檔欄位（不含訂單項目）
func (s *OrderRepo) UpdateOrderTx(tx *gorm.DB, order *model.Order) error {
	return tx.Omit("OrderItems").Save(order).Error
}

// CreateOrderItemTx 在tx內新增訂單項目
func (s *OrderRepo) CreateOrderItemTx(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Create(item).Error
}

// UpdateOrderItemTx 在tx內更新訂單項目
func (s *OrderRepo) UpdateOrderItemTx(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Save(item).Error
}

// DeleteOrderItemTx 在tx內硬刪除訂單項目
func (s *OrderRepo) DeleteOrderItemTx(tx *gorm.DB, itemID uint) error {
	return tx.Unscoped().Delete(&model.OrderItem{}, itemID).Error
}

// GetOrderItemsTx 在tx內取得訂單當前項目集合
// 重算總金額時以此為準，不使用記憶體內的過期資料
func (s *OrderRepo) GetOrderItemsTx(tx *gorm.DB, orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := tx.Where("order_id = ?", orderID).Order("order_item_id ASC").Find(&items).Error
	return items, err
}

// HardDeleteOrderTx 在tx內硬刪除訂單與其所有項目
func (s *OrderRepo) HardDeleteOrderTx(tx *gorm.DB, orderID uint) error {
	if err := tx.Unscoped().Where("order_id = ?", orderID).
		Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Order{}, orderID).Error
}

// 分頁查詢訂單
func (s *OrderRepo) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize

	// 計算總數
	s.db.WithContext(ctx).Model(&model.Order{}).Count(&total)

	// 分頁查詢
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&orders).Error

	return orders, total, err
}

// 根據條件分頁查詢
func (s *OrderRepo) GetOrdersPaginatedWithCondition(ctx context.Context, page, pageSize int, condition map[string]interface{}) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Order{})

	// 應用條件
	for key, value := range condition {
		query = query.Where(key+" = ?", value)
	}

	// 計算總數
	query.Count(&total)

	// 分頁查詢
	err := query.Preload("OrderItems").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&orders).Error

	return orders, total, err
}
