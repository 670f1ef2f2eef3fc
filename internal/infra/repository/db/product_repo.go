package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductStockNotEnough 商品庫存不足
	ErrProductStockNotEnough = errors.New("product stock not enough")
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create - 創建商品
func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// Read - 根據ID查詢商品
func (s *ProductRepo) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Read - 根據slug查詢商品
func (s *ProductRepo) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// LockProductForUpdateTx 在tx內以SELECT ... FOR UPDATE取得商品
// row lock會持有到tx結束，阻擋其他transaction對同一列的寫入
// 商品不存在回傳ErrProductNotFound
func (s *ProductRepo) LockProductForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// AdjustStockTx 在tx內調整庫存，delta可為負數
// 結果為負數時回傳ErrProductStockNotEnough，delta為0直接成功
// 呼叫端必須先以LockProductForUpdateTx鎖定該商品列
func (s *ProductRepo) AdjustStockTx(tx *gorm.DB, product *model.Product, delta int) error {
	if delta == 0 {
		return nil
	}

	newStock := int(product.Stock) + delta
	if newStock < 0 {
		return ErrProductStockNotEnough
	}

	if err := tx.Model(&model.Product{}).
		Where("product_id = ?", product.ProductID).
		Update("stock", newStock).Error; err != nil {
		return err
	}

	product.Stock = uint(newStock)
	return nil
}

// Read - 查詢所有上架商品
func (s *ProductRepo) GetActiveProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&products).Error
	return products, err
}

// Read - 查詢有庫存的商品
func (s *ProductRepo) GetProductsInStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("is_active = ? AND stock > 0", true).Find(&products).Error
	return products, err
}

// Read - 根據名稱搜尋商品（模糊搜尋）
func (s *ProductRepo) SearchProductsByName(ctx context.Context, name string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND name ILIKE ?", true, "%"+name+"%").
		Find(&products).Error
	return products, err
}

// Update - 更新商品
func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// Delete - 軟刪除商品
func (s *ProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// 取得低庫存商品
func (s *ProductRepo) GetLowStockProducts(ctx context.Context, threshold uint) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("stock <= ?", threshold).Find(&products).Error
	return products, err
}

// 分頁查詢商品
func (s *ProductRepo) GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	offset := (page - 1) * pageSize

	// 計算總數
	s.db.WithContext(ctx).Model(&model.Product{}).Count(&total)

	// 分頁查詢
	err := s.db.WithContext(ctx).Offset(offset).Limit(pageSize).Find(&products).Error

	return products, total, err
}

// 批量創建商品
func (s *ProductRepo) CreateProductsBatch(ctx context.Context, products []model.Product) error {
	return s.db.WithContext(ctx).Create(&products).Error
}
