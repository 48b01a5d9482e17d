package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, ttl time.Duration) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })

	return cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: ttl}), mock
}

var categories = []models.Category{{ID: 2, Name: "Kurta"}, {ID: 1, Name: "Others"}}

func TestGet(t *testing.T) {
	data, err := json.Marshal(categories)
	require.NoError(t, err)

	t.Run("Success - Hit", func(t *testing.T) {
		// Arrange
		c, mock := setup(t, time.Minute)
		mock.ExpectGet(cache.CategoryListKey).SetVal(string(data))

		// Act
		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoryListKey, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Others", got[1].Name)
	})

	t.Run("Success - Miss", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectGet(cache.CategoryListKey).RedisNil()

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoryListKey, &got)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("Failure - Redis Down", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectGet(cache.CategoryListKey).SetErr(errors.New("connection refused"))

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoryListKey, &got)

		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "cache get category:all")
	})

	t.Run("Failure - Corrupt Value", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectGet(cache.CategoryListKey).SetVal("{not json")

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoryListKey, &got)

		require.Error(t, err)
		assert.False(t, found)
	})
}

func TestSet(t *testing.T) {
	data, err := json.Marshal(categories)
	require.NoError(t, err)

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectSet(cache.CategoryListKey, data, 30*time.Second).SetVal("OK")

		assert.NoError(t, c.Set(t.Context(), cache.CategoryListKey, categories, 30*time.Second))
	})

	t.Run("Success - Default TTL", func(t *testing.T) {
		c, mock := setup(t, 10*time.Minute)
		mock.ExpectSet(cache.CategoryListKey, data, 10*time.Minute).SetVal("OK")

		assert.NoError(t, c.Set(t.Context(), cache.CategoryListKey, categories, 0))
	})

	t.Run("Success - Fallback TTL When Unconfigured", func(t *testing.T) {
		c, mock := setup(t, 0)
		mock.ExpectSet(cache.CategoryListKey, data, 5*time.Minute).SetVal("OK")

		assert.NoError(t, c.Set(t.Context(), cache.CategoryListKey, categories, -1))
	})

	t.Run("Failure - Unencodable Value", func(t *testing.T) {
		c, _ := setup(t, time.Minute)

		err := c.Set(t.Context(), "bad", make(chan int), 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache encode bad")
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectSet(cache.CategoryListKey, data, time.Minute).SetErr(errors.New("READONLY"))

		assert.Error(t, c.Set(t.Context(), cache.CategoryListKey, categories, 0))
	})
}

func TestDelete(t *testing.T) {
	t.Run("Success - Keys Removed", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectDel(cache.CategoryListKey, "product:7").SetVal(2)

		assert.NoError(t, c.Delete(t.Context(), cache.CategoryListKey, cache.Key(cache.ProductKeyPrefix, "7")))
	})

	t.Run("Success - No Keys Is A No-op", func(t *testing.T) {
		c, _ := setup(t, time.Minute)

		assert.NoError(t, c.Delete(t.Context()))
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		c, mock := setup(t, time.Minute)
		mock.ExpectDel(cache.CategoryListKey).SetErr(redis.ErrClosed)

		assert.ErrorIs(t, c.Delete(t.Context(), cache.CategoryListKey), redis.ErrClosed)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product:42", cache.Key(cache.ProductKeyPrefix, "42"))
	assert.Equal(t, "category:all", cache.CategoryListKey)
}
