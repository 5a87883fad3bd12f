package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/claudiojara/cart-service/internal/domain"
)

//go:embed products.json
var fixtureJSON []byte

// MemoryCatalog serves the fixed product catalog from an in-memory map.
// The catalog is read-only for the lifetime of the process.
type MemoryCatalog struct {
	products map[int64]domain.Product
	order    []int64
}

// NewMemoryCatalog builds a catalog from the given products.
func NewMemoryCatalog(products []domain.Product) *MemoryCatalog {
	c := &MemoryCatalog{
		products: make(map[int64]domain.Product, len(products)),
		order:    make([]int64, 0, len(products)),
	}
	for _, p := range products {
		if _, dup := c.products[p.ID]; dup {
			continue
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// NewFixtureCatalog loads the catalog shipped with the binary.
func NewFixtureCatalog() (*MemoryCatalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(fixtureJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to parse product fixture: %w", err)
	}
	return NewMemoryCatalog(products), nil
}

func (c *MemoryCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (c *MemoryCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out, nil
}
