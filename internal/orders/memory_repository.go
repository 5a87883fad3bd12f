package orders

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/claudiojara/cart-service/internal/domain"
)

// MemoryRepository keeps orders in memory for tests and for running the
// service without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *MemoryRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *MemoryRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	// newest first, matching the Postgres implementation
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			cp := *r.orders[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
