package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// HTTPCatalog resolves products against a remote product service. Calls go
// through a circuit breaker so a dead catalog fails fast instead of tying
// up request goroutines.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPCatalog(baseURL string, timeout time.Duration) *HTTPCatalog {
	settings := gobreaker.Settings{
		Name:    "product-catalog",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A missing product is a business outcome, not a catalog outage.
			return err == nil || err == ErrProductNotFound
		},
	}
	return &HTTPCatalog{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *HTTPCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id))
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

func (c *HTTPCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (c *HTTPCatalog) get(ctx context.Context, url string) ([]byte, error) {
	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog request failed: %w", err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			buf, errRead := io.ReadAll(resp.Body)
			if errRead != nil {
				return nil, fmt.Errorf("failed to read catalog response: %w", errRead)
			}
			return buf, nil
		case http.StatusNotFound:
			return nil, ErrProductNotFound
		default:
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
	})
}
