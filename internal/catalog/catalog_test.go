package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureCatalog_Loads(t *testing.T) {
	cat, err := NewFixtureCatalog()
	require.NoError(t, err)

	products, err := cat.ListProducts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.NotZero(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Greater(t, p.Price, 0.0)
	}
}

func TestMemoryCatalog_GetProduct(t *testing.T) {
	cat := NewMemoryCatalog([]domain.Product{
		{ID: 1, Name: "Lámpara Aura", Price: 24000},
		{ID: 2, Name: "Colgante Austral", Price: 46990},
	})

	p, err := cat.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lámpara Aura", p.Name)

	_, err = cat.GetProduct(context.Background(), 999999999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryCatalog_PreservesOrderAndSkipsDuplicates(t *testing.T) {
	cat := NewMemoryCatalog([]domain.Product{
		{ID: 3, Name: "c"},
		{ID: 1, Name: "a"},
		{ID: 3, Name: "dup"},
		{ID: 2, Name: "b"},
	})

	products, err := cat.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, int64(3), products[0].ID)
	assert.Equal(t, "c", products[0].Name)
	assert.Equal(t, int64(1), products[1].ID)
	assert.Equal(t, int64(2), products[2].ID)
}

func TestHTTPCatalog_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			json.NewEncoder(w).Encode(domain.Product{ID: 1, Name: "Lámpara Aura", Price: 24000})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cat := NewHTTPCatalog(srv.URL, time.Second)

	p, err := cat.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 24000.0, p.Price)

	_, err = cat.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestHTTPCatalog_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Product{
			{ID: 1, Name: "Lámpara Aura"},
			{ID: 2, Name: "Colgante Austral"},
		})
	}))
	defer srv.Close()

	cat := NewHTTPCatalog(srv.URL, time.Second)

	products, err := cat.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestHTTPCatalog_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cat := NewHTTPCatalog(srv.URL, time.Second)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := cat.GetProduct(ctx, 1)
		require.Error(t, err)
	}

	// Breaker is open now: the next call fails without reaching the server.
	srv.Close()
	_, err := cat.GetProduct(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestHTTPCatalog_NotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cat := NewHTTPCatalog(srv.URL, time.Second)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := cat.GetProduct(ctx, 42)
		assert.ErrorIs(t, err, ErrProductNotFound)
	}
}
