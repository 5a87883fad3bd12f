package cache

import (
	"context"
	"errors"

	"github.com/claudiojara/cart-service/internal/domain"
)

// CartCache holds raw cart items only, never resolved prices; totals are
// recomputed from the catalog on every read.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
	Set(ctx context.Context, userID string, items []domain.CartItem) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
