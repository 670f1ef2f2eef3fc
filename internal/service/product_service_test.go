package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	rediscache "github.com/RoyceAzure/lab/shop/internal/infra/cache/redis"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	redisClient    *goredis.Client
	productRepo    *db.ProductRepo
	productService *ProductService
}

// SetupSuite 在測試套件開始前執行
func (suite *ProductServiceTestSuite) SetupSuite() {
	conn, err := db.GetDbConn("lab_shop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	dao := db.NewDbDao(conn)
	require.NoError(suite.T(), dao.InitMigrate())

	suite.db = conn
	suite.redisClient = goredis.NewClient(&goredis.Options{
		Addr:     "localhost:6379",
		Password: "password",
		DB:       1, // 用測試DB
	})
	suite.productRepo = db.NewProductRepo(dao)
	suite.productService = NewProductService(
		suite.productRepo,
		rediscache.NewRedisCache(suite.redisClient, "test_shop"),
		zerolog.Nop(),
	)
}

// SetupTest 在每個測試前執行
func (suite *ProductServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM products")
	suite.redisClient.FlushDB(context.Background())
}

// TearDownSuite 在測試套件結束後執行
func (suite *ProductServiceTestSuite) TearDownSuite() {
	suite.redisClient.Close()
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *ProductServiceTestSuite) createProduct(slug string, price float64, stock uint) *model.Product {
	product := &model.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(suite.T(), suite.productService.CreateProduct(context.Background(), product))
	return product
}

func (suite *ProductServiceTestSuite) TestGetProduct_NotFound() {
	_, err := suite.productService.GetProduct(context.Background(), 99999)
	require.ErrorIs(suite.T(), err, ErrProductNotExist)
}

func (suite *ProductServiceTestSuite) TestGetProduct_CacheReadThrough() {
	product := suite.createProduct("cached-product", 100.0, 10)

	// 第一次讀取寫入cache
	found, err := suite.productService.GetProduct(context.Background(), product.ProductID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), product.Slug, found.Slug)

	// 直接改db，cache內仍是舊資料
	suite.db.Model(&model.Product{}).
		Where("product_id = ?", product.ProductID).
		Update("name", "changed behind cache")

	cached, err := suite.productService.GetProduct(context.Background(), product.ProductID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), found.Name, cached.Name)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_InvalidatesCache() {
	product := suite.createProduct("invalidate-me", 100.0, 10)

	// 先讀一次讓cache有值
	_, err := suite.productService.GetProduct(context.Background(), product.ProductID)
	require.NoError(suite.T(), err)

	product.Name = "Updated Name"
	require.NoError(suite.T(), suite.productService.UpdateProduct(context.Background(), product))

	// 更新後cache已失效，讀到新資料
	found, err := suite.productService.GetProduct(context.Background(), product.ProductID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Updated Name", found.Name)
}

func (suite *ProductServiceTestSuite) TestListActiveProducts() {
	suite.createProduct("active-1", 100.0, 10)
	inactive := suite.createProduct("inactive-1", 100.0, 10)
	inactive.IsActive = false
	require.NoError(suite.T(), suite.productService.UpdateProduct(context.Background(), inactive))

	products, err := suite.productService.ListActiveProducts(context.Background())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
}

// 執行測試套件
func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
