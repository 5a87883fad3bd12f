package catalog

import (
	"context"
	"errors"

	"github.com/claudiojara/cart-service/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Lookup resolves product ids to product data. The cart core only reads the
// catalog; it never writes product state.
type Lookup interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
