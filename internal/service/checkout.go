package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/claudiojara/cart-service/internal/catalog"
	"github.com/claudiojara/cart-service/internal/domain"
)

const (
	cacheInvalidateTimeout = time.Second
	publishTimeout         = 5 * time.Second
)

// Checkout finalizes the user's cart into an order confirmation and clears
// it. The whole operation holds the user's write lock, so a concurrent add
// either lands before the snapshot (and is part of the order) or after the
// clear (and starts a fresh cart), never in between. If persisting the
// order fails, the cart is left untouched.
func (s *CartService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart for checkout: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		product, errProduct := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(errProduct, catalog.ErrProductNotFound) {
			// You cannot order what the catalog no longer sells.
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrProductUnavailable)
		}
		if errProduct != nil {
			return nil, fmt.Errorf("failed to resolve product %d: %w", item.ProductID, errProduct)
		}

		line := s.toLine(item, product)
		lines = append(lines, line)
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    line.Subtotal,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: s.proj.CartTotal(lines),
		Currency:    s.proj.Currency(),
		Status:      domain.OrderStatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}
	s.invalidateCache(userID)

	go s.publishOrder(order)

	return order, nil
}

// publishOrder emits the order-completed event. Delivery failures are
// logged and never surfaced to the caller.
func (s *CartService) publishOrder(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderCompleted(ctx, order); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("order event publish failed")
	}
}
