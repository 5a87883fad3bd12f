package orders

import (
	"context"
	"testing"

	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      "user-1",
		TotalAmount: 48000,
		Currency:    "CLP",
		Status:      domain.OrderStatusCompleted,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalAmount, got.TotalAmount)

	_, err = repo.GetOrderByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryRepository_ListNewestFirstPerUser(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &domain.Order{ID: uuid.New(), UserID: "user-1"}
	second := &domain.Order{ID: uuid.New(), UserID: "user-1"}
	other := &domain.Order{ID: uuid.New(), UserID: "user-2"}
	require.NoError(t, repo.CreateOrder(ctx, first))
	require.NoError(t, repo.CreateOrder(ctx, other))
	require.NoError(t, repo.CreateOrder(ctx, second))

	list, err := repo.ListOrdersByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
