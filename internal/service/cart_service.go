package service

import (
	"context"
	"errors"

	"github.com/claudiojara/cart-service/internal/cache"
	"github.com/claudiojara/cart-service/internal/catalog"
	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/claudiojara/cart-service/internal/events"
	"github.com/claudiojara/cart-service/internal/orders"
	"github.com/claudiojara/cart-service/internal/projector"
	"github.com/claudiojara/cart-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CartService is the caller-facing operation layer: it validates input,
// resolves products against the catalog, applies the cart rules, and
// translates store outcomes for callers.
type CartService struct {
	repo      repository.CartRepository
	catalog   catalog.Lookup
	cartCache cache.CartCache
	orders    orders.OrderRepository
	publisher events.Publisher
	proj      *projector.Projector
	log       logrus.FieldLogger

	locks userLocks
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	lookup catalog.Lookup,
	cartCache cache.CartCache,
	orderRepo orders.OrderRepository,
	publisher events.Publisher,
	proj *projector.Projector,
	log logrus.FieldLogger,
) *CartService {
	return &CartService{
		repo:      repo,
		catalog:   lookup,
		cartCache: cartCache,
		orders:    orderRepo,
		publisher: publisher,
		proj:      proj,
		log:       log,
	}
}

// AddItem validates the quantity, resolves the product, then merges the
// item into the user's cart. Adding an already-present product increments
// its quantity instead of creating a duplicate line.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, repository.ErrInvalidQuantity
	}

	// Catalog lookups happen outside the per-user lock; only the mutation
	// itself has to serialize.
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.repo.UpsertAdd(ctx, userID, productID, quantity)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("repo upsert add failed")
		return nil, err
	}
	s.invalidateCache(userID)

	line := s.toLine(*item, product)
	return &line, nil
}

// UpdateQuantity sets an exact quantity on an existing line. A quantity
// <= 0 removes the line; this is how "decreasing quantity to zero removes
// the item" is realized. Updating a product with no existing line fails
// with ErrItemNotFound for any quantity value.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartLine, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if quantity <= 0 {
		if err := s.repo.Remove(ctx, userID, productID); err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return nil, nil
	}

	item, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(userID)

	product, errProduct := s.catalog.GetProduct(ctx, productID)
	if errProduct != nil && !errors.Is(errProduct, catalog.ErrProductNotFound) {
		return nil, errProduct
	}

	line := s.toLine(*item, product)
	return &line, nil
}

// RemoveItem deletes the line. A second removal of the same item fails
// with ErrItemNotFound so that duplicate client retries stay observable.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return err
	}
	s.invalidateCache(userID)
	return nil
}

// ListItems returns the user's cart lines in insertion order, enriched
// with live product data. Lines whose product no longer resolves are kept
// with a degraded representation rather than dropped.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]domain.CartLine, error) {
	items, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items)
}

// Summary is the badge projection: item count and cart total, recomputed
// from a fresh snapshot on every call.
func (s *CartService) Summary(ctx context.Context, userID string) (domain.CartSummary, error) {
	lines, err := s.ListItems(ctx, userID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return s.proj.Summarize(lines), nil
}

// ClearCart empties the user's cart. Clearing an already-empty cart
// succeeds; the operation is idempotent.
func (s *CartService) ClearCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Clear(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("repo clear cart failed")
		return nil, err
	}
	s.invalidateCache(userID)
	return []domain.CartLine{}, nil
}

// ListOrders returns the user's order history, newest first.
func (s *CartService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUserID(ctx, userID)
}

// snapshot reads the user's raw cart items, going through the cache and
// collapsing concurrent misses for the same user into one repository read.
// Callers that need consistency against concurrent writes hold the user's
// read lock around this call.
func (s *CartService) snapshot(ctx context.Context, userID string) ([]domain.CartItem, error) {
	lock := s.locks.get(userID)
	lock.RLock()
	defer lock.RUnlock()

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		items, errGet := s.cartCache.Get(ctx, userID)
		if errGet == nil {
			return items, nil
		}
		if !errors.Is(errGet, cache.ErrCacheMiss) {
			s.log.WithError(errGet).Warn("cache get failed")
		}

		items, errList := s.repo.List(ctx, userID)
		if errList != nil {
			return nil, errList
		}

		// Set synchronously while the read lock is held so a stale
		// snapshot can never land in the cache after an invalidation.
		if errSet := s.cartCache.Set(ctx, userID, items); errSet != nil {
			s.log.WithError(errSet).Warn("cache set failed")
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartItem), nil
}

// enrich resolves each item's product for display. Unit prices come from
// the catalog at read time, never from a stored snapshot.
func (s *CartService) enrich(ctx context.Context, items []domain.CartItem) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil && !errors.Is(err, catalog.ErrProductNotFound) {
			return nil, err
		}
		lines = append(lines, s.toLine(item, product))
	}
	return lines, nil
}

// toLine builds the display line. A nil product marks the line as
// unavailable with a zero price.
func (s *CartService) toLine(item domain.CartItem, product *domain.Product) domain.CartLine {
	line := domain.CartLine{CartItem: item}
	if product == nil {
		line.Unavailable = true
		return line
	}
	line.ProductName = product.Name
	line.UnitPrice = product.Price
	line.ImageURL = product.ImageURL
	line.Subtotal = s.proj.LineSubtotal(item.Quantity, product.Price)
	return line
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheInvalidateTimeout)
	defer cancel()
	if err := s.cartCache.Delete(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("cache invalidate failed")
	}
}
