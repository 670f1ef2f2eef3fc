package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ProductRepoTestSuite struct {
	suite.Suite
	db          *gorm.DB
	dao         *DbDao
	productRepo *ProductRepo
}

// SetupSuite 在測試套件開始前執行
func (suite *ProductRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_shop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	dao := NewDbDao(db)
	require.NoError(suite.T(), dao.InitMigrate())

	suite.db = db
	suite.dao = dao
	suite.productRepo = NewProductRepo(dao)
}

// SetupTest 在每個測試前執行
func (suite *ProductRepoTestSuite) SetupTest() {
	// 清空資料表
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM products")
}

// TearDownSuite 在測試套件結束後執行
func (suite *ProductRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *ProductRepoTestSuite) newProduct(slug string, price float64, stock uint) *model.Product {
	return &model.Product{
		Name:     "Test Product " + slug,
		Slug:     slug,
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
		IsActive: true,
	}
}

func (suite *ProductRepoTestSuite) TestCreateProduct() {
	product := suite.newProduct("test-product", 100.0, 10)

	err := suite.productRepo.CreateProduct(context.Background(), product)

	require.NoError(suite.T(), err)
	require.NotZero(suite.T(), product.ProductID)
	require.False(suite.T(), product.CreatedAt.IsZero())
}

func (suite *ProductRepoTestSuite) TestCreateProduct_DuplicateSlug() {
	product1 := suite.newProduct("same-slug", 100.0, 10)
	product2 := suite.newProduct("same-slug", 200.0, 20)

	err1 := suite.productRepo.CreateProduct(context.Background(), product1)
	err2 := suite.productRepo.CreateProduct(context.Background(), product2)

	require.NoError(suite.T(), err1)
	require.Error(suite.T(), err2) // slug重複應該會失敗
}

func (suite *ProductRepoTestSuite) TestGetProductByID() {
	product := suite.newProduct("test-product", 100.0, 10)
	suite.productRepo.CreateProduct(context.Background(), product)

	foundProduct, err := suite.productRepo.GetProductByID(context.Background(), product.ProductID)

	require.NoError(suite.T(), err)
	require.Equal(suite.T(), product.Name, foundProduct.Name)
	require.True(suite.T(), product.Price.Equal(foundProduct.Price))
}

func (suite *ProductRepoTestSuite) TestGetProductByID_NotFound() {
	foundProduct, err := suite.productRepo.GetProductByID(context.Background(), 99999)

	require.ErrorIs(suite.T(), err, ErrProductNotFound)
	require.Nil(suite.T(), foundProduct)
}

func (suite *ProductRepoTestSuite) TestGetProductBySlug() {
	product := suite.newProduct("find-me", 100.0, 10)
	suite.productRepo.CreateProduct(context.Background(), product)

	foundProduct, err := suite.productRepo.GetProductBySlug(context.Background(), "find-me")

	require.NoError(suite.T(), err)
	require.Equal(suite.T(), product.ProductID, foundProduct.ProductID)
}

func (suite *ProductRepoTestSuite) TestAdjustStockTx_Decrease() {
	product := suite.newProduct("test-product", 100.0, 10)
	suite.productRepo.CreateProduct(context.Background(), product)

	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		locked, err := suite.productRepo.LockProductForUpdateTx(tx, product.ProductID)
		if err != nil {
			return err
		}
		return suite.productRepo.AdjustStockTx(tx, locked, -3)
	})
	require.NoError(suite.T(), err)

	updated, _ := suite.productRepo.GetProductByID(context.Background(), product.ProductID)
	require.Equal(suite.T(), uint(7), updated.Stock)
}

func (suite *ProductRepoTestSuite) TestAdjustStockTx_NotEnough() {
	product := suite.newProduct("test-product", 100.0, 2)
	suite.productRepo.CreateProduct(context.Background(), product)

	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		locked, err := suite.productRepo.LockProductForUpdateTx(tx, product.ProductID)
		if err != nil {
			return err
		}
		return suite.productRepo.AdjustStockTx(tx, locked, -5)
	})
	require.ErrorIs(suite.T(), err, ErrProductStockNotEnough)

	// transaction rollback，庫存不變
	updated, _ := suite.productRepo.GetProductByID(context.Background(), product.ProductID)
	require.Equal(suite.T(), uint(2), updated.Stock)
}

func (suite *ProductRepoTestSuite) TestAdjustStockTx_ZeroDelta() {
	product := suite.newProduct("test-product", 100.0, 10)
	suite.productRepo.CreateProduct(context.Background(), product)

	err := suite.dao.ExecTx(context.Background(), func(tx *gorm.DB) error {
		locked, err := suite.productRepo.LockProductForUpdateTx(tx, product.ProductID)
		if err != nil {
			return err
		}
		return suite.productRepo.AdjustStockTx(tx, locked, 0)
	})
	require.NoError(suite.T(), err)

	updated, _ := suite.productRepo.GetProductByID(context.Background(), product.ProductID)
	require.Equal(suite.T(), uint(10), updated.Stock)
}

func (suite *ProductRepoTestSuite) TestGetActiveProducts() {
	active := suite.newProduct("active-product", 100.0, 10)
	inactive := suite.newProduct("inactive-product", 100.0, 10)
	inactive.IsActive = false

	suite.productRepo.CreateProduct(context.Background(), active)
	suite.productRepo.CreateProduct(context.Background(), inactive)

	products, err := suite.productRepo.GetActiveProducts(context.Background())

	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
	require.Equal(suite.T(), active.ProductID, products[0].ProductID)
}

func (suite *ProductRepoTestSuite) TestSearchProductsByName() {
	suite.productRepo.CreateProduct(context.Background(), suite.newProduct("red-shirt", 100.0, 10))
	suite.productRepo.CreateProduct(context.Background(), suite.newProduct("blue-shirt", 100.0, 10))

	products, err := suite.productRepo.SearchProductsByName(context.Background(), "red")

	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestGetLowStockProducts() {
	suite.productRepo.CreateProduct(context.Background(), suite.newProduct("low-stock", 100.0, 2))
	suite.productRepo.CreateProduct(context.Background(), suite.newProduct("enough-stock", 100.0, 50))

	products, err := suite.productRepo.GetLowStockProducts(context.Background(), 5)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
	require.Equal(suite.T(), "low-stock", products[0].Slug)
}

func (suite *ProductRepoTestSuite) TestGetProductsPaginated() {
	// 創建 25 個商品
	for i := 1; i <= 25; i++ {
		product := suite.newProduct(fmt.Sprintf("product-%03d", i), float64(i*100), uint(i*10))
		suite.productRepo.CreateProduct(context.Background(), product)
	}

	// 測試第一頁，每頁 10 筆
	products, total, err := suite.productRepo.GetProductsPaginated(context.Background(), 1, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 10)
	require.Equal(suite.T(), int64(25), total)

	// 測試第三頁，每頁 10 筆
	products, total, err = suite.productRepo.GetProductsPaginated(context.Background(), 3, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 5) // 第三頁只有 5 筆
	require.Equal(suite.T(), int64(25), total)
}

func (suite *ProductRepoTestSuite) TestDeleteProduct() {
	product := suite.newProduct("to-delete", 100.0, 10)
	suite.productRepo.CreateProduct(context.Background(), product)

	err := suite.productRepo.DeleteProduct(context.Background(), product.ProductID)
	require.NoError(suite.T(), err)

	// 驗證軟刪除
	foundProduct, err := suite.productRepo.GetProductByID(context.Background(), product.ProductID)
	require.ErrorIs(suite.T(), err, ErrProductNotFound)
	require.Nil(suite.T(), foundProduct)
}

// 執行測試套件
func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}
