package repository

import (
	"context"
	"errors"

	"github.com/claudiojara/cart-service/internal/domain"
)

var (
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartRepository defines the interface for cart item storage.
// Consumers define this interface, not the MongoDB implementation.
//
// All mutations for the same user are linearizable with respect to each
// other: two concurrent UpsertAdd calls for the same product must never
// lose an increment. Operations on different users never block one another.
type CartRepository interface {
	// UpsertAdd creates the item with the given quantity, or increments the
	// existing item's quantity when the user already has that product.
	// Quantity must be >= 1. Returns the resulting item.
	UpsertAdd(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error)

	// SetQuantity sets an exact quantity on an existing item. A quantity
	// <= 0 deletes the item instead; a zero-quantity item is never a valid
	// persisted state. SetQuantity never creates: it returns
	// ErrItemNotFound when the user has no item for that product,
	// regardless of the quantity value.
	SetQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error)

	// Remove deletes the item, failing with ErrItemNotFound when absent.
	Remove(ctx context.Context, userID string, productID int64) error

	// List returns the user's items in insertion order.
	List(ctx context.Context, userID string) ([]domain.CartItem, error)

	// Clear deletes all of the user's items. Clearing an already-empty
	// cart succeeds.
	Clear(ctx context.Context, userID string) error
}
