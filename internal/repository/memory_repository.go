package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/claudiojara/cart-service/internal/domain"
)

// MemoryRepository implements CartRepository with in-memory storage. It
// backs local development and tests, and is the session-scoped store when
// no MongoDB is configured.
//
// Each user's items live behind that user's own mutex, so mutations for one
// user serialize while different users proceed in parallel. The outer map
// lock is only held long enough to find or create the per-user bucket.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*userCart
}

type userCart struct {
	mu    sync.Mutex
	items []*domain.CartItem // insertion order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]*userCart),
	}
}

func (r *MemoryRepository) cartFor(userID string, create bool) *userCart {
	r.mu.RLock()
	c, ok := r.carts[userID]
	r.mu.RUnlock()
	if ok || !create {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.carts[userID]; ok {
		return c
	}
	c = &userCart{}
	r.carts[userID] = c
	return c
}

func (r *MemoryRepository) UpsertAdd(_ context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	c := r.cartFor(userID, true)
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	for _, item := range c.items {
		if item.ProductID == productID {
			item.Quantity += quantity
			item.UpdatedAt = now
			cp := *item
			return &cp, nil
		}
	}

	item := &domain.CartItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.items = append(c.items, item)
	cp := *item
	return &cp, nil
}

func (r *MemoryRepository) SetQuantity(_ context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error) {
	c := r.cartFor(userID, false)
	if c == nil {
		return nil, ErrItemNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil, nil
		}
		item.Quantity = quantity
		item.UpdatedAt = time.Now().UTC()
		cp := *item
		return &cp, nil
	}
	return nil, ErrItemNotFound
}

func (r *MemoryRepository) Remove(_ context.Context, userID string, productID int64) error {
	c := r.cartFor(userID, false)
	if c == nil {
		return ErrItemNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]domain.CartItem, error) {
	c := r.cartFor(userID, false)
	if c == nil {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, len(c.items))
	for i, item := range c.items {
		items[i] = *item
	}
	return items, nil
}

func (r *MemoryRepository) Clear(_ context.Context, userID string) error {
	c := r.cartFor(userID, false)
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return nil
}
