package redis

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/infra/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	testRedisAddr     = "localhost:6379"
	testRedisPassword = "password"
	testPrefix        = "test_shop"
)

type RedisCacheTestSuite struct {
	suite.Suite
	cache cache.Cache
}

func setupTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     testRedisAddr,
		Password: testRedisPassword,
		DB:       1, // 用測試DB
	})
}

func (suite *RedisCacheTestSuite) SetupTest() {
	rdb := setupTestRedis()
	rdb.FlushDB(context.Background())
	suite.cache = NewRedisCache(rdb, testPrefix)
}

func TestRedisCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheTestSuite))
}

func (suite *RedisCacheTestSuite) TestSetAndGet() {
	ctx := context.Background()

	err := suite.cache.Set(ctx, "key1", "value1", time.Minute)
	assert.NoError(suite.T(), err)

	got, err := suite.cache.Get(ctx, "key1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "value1", got)
}

func (suite *RedisCacheTestSuite) TestGet_Miss() {
	ctx := context.Background()

	_, err := suite.cache.Get(ctx, "not-exist")
	assert.True(suite.T(), IsCacheMiss(err))
}

func (suite *RedisCacheTestSuite) TestDelete() {
	ctx := context.Background()

	suite.cache.Set(ctx, "key1", "value1", time.Minute)
	err := suite.cache.Delete(ctx, "key1")
	assert.NoError(suite.T(), err)

	exists, err := suite.cache.Exists(ctx, "key1")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *RedisCacheTestSuite) TestMDelete() {
	ctx := context.Background()

	suite.cache.Set(ctx, "key1", "value1", time.Minute)
	suite.cache.Set(ctx, "key2", "value2", time.Minute)

	err := suite.cache.MDelete(ctx, "key1", "key2")
	assert.NoError(suite.T(), err)

	exists1, _ := suite.cache.Exists(ctx, "key1")
	exists2, _ := suite.cache.Exists(ctx, "key2")
	assert.False(suite.T(), exists1)
	assert.False(suite.T(), exists2)
}

func (suite *RedisCacheTestSuite) TestKeysAndClear() {
	ctx := context.Background()

	suite.cache.Set(ctx, "product:1", "a", time.Minute)
	suite.cache.Set(ctx, "product:2", "b", time.Minute)

	keys, err := suite.cache.Keys(ctx, "product:*")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), keys, 2)

	err = suite.cache.Clear(ctx)
	assert.NoError(suite.T(), err)

	keys, _ = suite.cache.Keys(ctx, "product:*")
	assert.Empty(suite.T(), keys)
}
