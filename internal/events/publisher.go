package events

import (
	"context"

	"github.com/claudiojara/cart-service/internal/domain"
)

// Publisher announces completed orders to downstream consumers (order
// history projections, warehouse, notifications). Publishing is best
// effort: checkout never fails because an event could not be delivered.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, order *domain.Order) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCompleted(context.Context, *domain.Order) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }
