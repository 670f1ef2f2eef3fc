package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/cache"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

const (
	productCacheTTL       = 10 * time.Minute
	productCacheKeyFmt    = "product:%d"
	productActiveCacheKey = "products:active"
)

type IProductService interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	SearchProducts(ctx context.Context, name string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	GetLowStockProducts(ctx context.Context, threshold uint) ([]model.Product, error)
	GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error)
}

// ProductService 商品目錄服務
// 讀取走cache（read-through），寫入後失效相關cache key
type ProductService struct {
	productRepo db.IProductRepository
	cache       cache.Cache // 可為nil，未啟用cache
	logger      zerolog.Logger
}

var _ IProductService = (*ProductService)(nil)

func NewProductService(productRepo db.IProductRepository, productCache cache.Cache, logger zerolog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	key := fmt.Sprintf(productCacheKeyFmt, id)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var product model.Product
			if err := json.Unmarshal([]byte(raw), &product); err == nil {
				return &product, nil
			}
			// 反序列化失敗視為cache miss，照常走db
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, ErrProductNotExist
		}
		return nil, err
	}

	s.setCache(ctx, key, product)
	return product, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, ErrProductNotExist
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, productActiveCacheKey); err == nil {
			var products []model.Product
			if err := json.Unmarshal([]byte(raw), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.productRepo.GetActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, productActiveCacheKey, products)
	return products, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	return s.productRepo.SearchProductsByName(ctx, name)
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidateProductCache(ctx, product.ProductID)
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateProductCache(ctx, id)
	return nil
}

func (s *ProductService) GetLowStockProducts(ctx context.Context, threshold uint) ([]model.Product, error) {
	return s.productRepo.GetLowStockProducts(ctx, threshold)
}

func (s *ProductService) GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error) {
	return s.productRepo.GetProductsPaginated(ctx, page, pageSize)
}

func (s *ProductService) setCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, productCacheTTL); err != nil {
		// cache失敗只記log，不影響主流程
		s.logger.Warn().Err(err).Str("key", key).Msg("set product cache failed")
	}
}

func (s *ProductService) invalidateProductCache(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	err := s.cache.MDelete(ctx, fmt.Sprintf(productCacheKeyFmt, id), productActiveCacheKey)
	if err != nil {
		s.logger.Warn().Err(err).Uint("product_id", id).Msg("invalidate product cache failed")
	}
}

func (s *ProductService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productActiveCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate product list cache failed")
	}
}
