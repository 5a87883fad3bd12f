package cache

import (
	"context"

	"github.com/claudiojara/cart-service/internal/domain"
)

// NoopCache always misses. It stands in when no Redis is configured, so
// every read goes to the repository.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]domain.CartItem, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) Set(context.Context, string, []domain.CartItem) error { return nil }

func (NoopCache) Delete(context.Context, string) error { return nil }
