package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	items := []domain.CartItem{
		{UserID: userID, ProductID: 1, Quantity: 2},
		{UserID: userID, ProductID: 2, Quantity: 3},
	}

	// Manually set data in miniredis
	itemsJSON, _ := json.Marshal(items)
	mr.Set(cacheKey(userID), string(itemsJSON))

	result, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ProductID)
	assert.Equal(t, 3, result[1].Quantity)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"
	key := cacheKey(userID)

	items := []domain.CartItem{{UserID: userID, ProductID: 10, Quantity: 5}}
	itemsJSON, err := json.Marshal(items)
	require.NoError(t, err)
	truncated := itemsJSON[0:10]
	e2 := mr.Set(key, string(truncated))
	require.NoError(t, e2)

	_, cacheError := cache.Get(ctx, userID)
	require.ErrorContains(t, cacheError, "unmarshal cart items failed")
}

func TestSet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user456"

	items := []domain.CartItem{{UserID: userID, ProductID: 10, Quantity: 5}}

	err := cache.Set(ctx, userID, items)
	require.NoError(t, err)

	// Verify data was stored correctly in miniredis
	stored, e2 := mr.Get(cacheKey(userID))
	assert.NotEmpty(t, stored)
	require.NoError(t, e2)

	var storedItems []domain.CartItem
	err = json.Unmarshal([]byte(stored), &storedItems)
	require.NoError(t, err)
	require.Len(t, storedItems, 1)
	assert.Equal(t, int64(10), storedItems[0].ProductID)
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	err := cache.Set(context.Background(), "user789", []domain.CartItem{})
	require.NoError(t, err)

	// Check that TTL was set (miniredis tracks TTL)
	ttl := mr.TTL(cacheKey("user789"))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user999"

	itemsJSON, _ := json.Marshal([]domain.CartItem{{UserID: userID, ProductID: 1, Quantity: 1}})
	mr.Set(cacheKey(userID), string(itemsJSON))
	assert.True(t, mr.Exists(cacheKey(userID)))

	err := cache.Delete(ctx, userID)
	require.NoError(t, err)

	assert.False(t, mr.Exists(cacheKey(userID)))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	// Deleting non-existent key should not error
	err := cache.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err)
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:test123", cacheKey("test123"))
}
