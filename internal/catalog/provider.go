// Package catalog supplies product data and reconciles cart lines against it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// ErrBadPayload marks a products response that is not a JSON array.
var ErrBadPayload = errors.New("products payload is not a list")

// Provider is the catalog collaborator the cart engine consumes. The sqlite
// Repository satisfies it in-process; HTTPProvider satisfies it against a
// remote products endpoint.
type Provider interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// HTTPProvider fetches the product listing over HTTP. Calls run through a
// circuit breaker so a flapping catalog endpoint fails fast instead of tying
// up every refresh.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]domain.Product]
}

func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	breaker := gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &HTTPProvider{baseURL: baseURL, client: client, breaker: breaker}
}

func (p *HTTPProvider) FetchAll(ctx context.Context) ([]domain.Product, error) {
	return p.breaker.Execute(func() ([]domain.Product, error) {
		return p.fetch(ctx)
	})
}

func (p *HTTPProvider) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/Products", nil)
	if err != nil {
		return nil, fmt.Errorf("build products request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read products response: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return products, nil
}
