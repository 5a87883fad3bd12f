package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/claudiojara/cart-service/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists checkout confirmations.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}
