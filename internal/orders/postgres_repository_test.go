package orders

import (
	"context"
	"testing"
	"time"

	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	if testing.Short() {
		t.Skip("skipping Postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cred := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewPostgresRepository(cred)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations(cred))

	return repo
}

func newTestOrder(userID string) *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: 94990,
		Currency:    "CLP",
		Status:      domain.OrderStatusCompleted,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Lámpara Aura", Quantity: 2, UnitPrice: 24000, Subtotal: 48000},
			{ProductID: 2, ProductName: "Colgante Austral", Quantity: 1, UnitPrice: 46990, Subtotal: 46990},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgresCreateOrder_RoundTrip(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	order := newTestOrder("user-123")
	require.NoError(t, repo.CreateOrder(ctx, order))

	fetched, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, order.UserID, fetched.UserID)
	assert.Equal(t, order.TotalAmount, fetched.TotalAmount)
	assert.Equal(t, order.Currency, fetched.Currency)
	assert.Equal(t, order.Status, fetched.Status)

	// Items survive the JSONB round trip intact.
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, order.Items[0].ProductName, fetched.Items[0].ProductName)
	assert.Equal(t, order.Items[0].Subtotal, fetched.Items[0].Subtotal)
	assert.Equal(t, order.Items[1].UnitPrice, fetched.Items[1].UnitPrice)
}

func TestPostgresGetOrderByID_NotFound(t *testing.T) {
	repo := setupPostgres(t)

	_, err := repo.GetOrderByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresListOrdersByUserID_NewestFirst(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	userID := "user-list-test"

	order1 := newTestOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, order1))

	// Small sleep to ensure different created_at timestamps
	time.Sleep(10 * time.Millisecond)

	order2 := newTestOrder(userID)
	order2.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.CreateOrder(ctx, order2))

	require.NoError(t, repo.CreateOrder(ctx, newTestOrder("someone-else")))

	list, err := repo.ListOrdersByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, order2.ID, list[0].ID)
	assert.Equal(t, order1.ID, list[1].ID)
}
