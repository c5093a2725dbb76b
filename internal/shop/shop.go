// Package shop exposes the cart engine to the rest of the application: the
// mutation surface, derived reads, the last-error and loading observables,
// and change notifications for the UI layer.
package shop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/store"
	"golang.org/x/sync/singleflight"
)

// Shop composes the cart aggregate, its persistent store and the catalog
// provider. Collaborators are injected; nothing here reaches for globals.
//
// Mutations never panic across this boundary: they report success or failure
// and mirror failures into the Err observable. Catalog trouble is fail-open,
// the existing lines always survive a refresh that went wrong.
type Shop struct {
	cart     *cart.Cart
	provider catalog.Provider
	log      *slog.Logger

	sfg singleflight.Group // serializes overlapping refreshes

	mu       sync.Mutex
	lastErr  string
	loading  bool
	onChange []func()
}

// New loads the persisted cart and wires the collaborators together.
func New(ctx context.Context, st *store.CartStore, provider catalog.Provider, log *slog.Logger) *Shop {
	return &Shop{
		cart:     cart.Load(ctx, st),
		provider: provider,
		log:      log,
	}
}

// OnChange registers a callback invoked after every cart mutation, including
// a refresh that rewrote the lines.
func (s *Shop) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// AddToCart puts one unit of the product in the cart and reports success.
func (s *Shop) AddToCart(ctx context.Context, p domain.Product) bool {
	s.clearErr()
	if err := s.cart.AddLine(ctx, p); err != nil {
		s.log.Warn("add to cart rejected", "error", err)
		s.setErr("Failed to add item to cart")
		return false
	}
	s.notify()
	return true
}

// RemoveFromCart deletes the product's line; removing what is not there
// still succeeds.
func (s *Shop) RemoveFromCart(ctx context.Context, productID string) bool {
	s.clearErr()
	s.cart.RemoveLine(ctx, productID)
	s.notify()
	return true
}

// UpdateQuantity sets the line's quantity, clamped to a minimum of one.
func (s *Shop) UpdateQuantity(ctx context.Context, productID string, quantity int) bool {
	s.clearErr()
	s.cart.SetQuantity(ctx, productID, quantity)
	s.notify()
	return true
}

// ClearCart empties the cart and its persisted entries.
func (s *Shop) ClearCart(ctx context.Context) bool {
	s.clearErr()
	s.cart.Clear(ctx)
	s.notify()
	return true
}

func (s *Shop) CartTotal() float64 { return s.cart.TotalPrice() }
func (s *Shop) ItemCount() int     { return s.cart.ItemCount() }

func (s *Shop) IsInCart(productID string) bool { return s.cart.HasLine(productID) }

func (s *Shop) CartItem(productID string) (domain.CartLine, bool) {
	return s.cart.GetLine(productID)
}

// Lines returns a copy of the current cart lines for display.
func (s *Shop) Lines() []domain.CartLine { return s.cart.Lines() }

// Refresh reconciles the cart against the catalog: lines are re-enriched
// with current product fields and lines whose product disappeared are
// dropped. Overlapping calls share a single fetch. A failed fetch leaves the
// cart untouched and surfaces a message through Err.
func (s *Shop) Refresh(ctx context.Context) []domain.CartLine {
	v, _, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx), nil
	})
	lines, _ := v.([]domain.CartLine)
	return lines
}

func (s *Shop) refresh(ctx context.Context) []domain.CartLine {
	s.clearErr()

	current := s.cart.Lines()
	if len(current) == 0 {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	products, err := s.provider.FetchAll(ctx)
	if err != nil {
		s.log.Warn("cart refresh failed, keeping existing lines", "error", err)
		s.setErr("Failed to load cart items: " + err.Error())
		return nil
	}

	// Merge against whatever the cart holds now; the fetch may have raced a
	// user mutation and the later writer wins.
	current = s.cart.Lines()
	enriched := catalog.Reconcile(current, products)
	if len(enriched) != len(current) {
		s.cart.ReplaceLines(ctx, enriched)
		s.notify()
	}
	return enriched
}

// Err reports the last failure message, empty when the previous operation
// succeeded.
func (s *Shop) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearErr resets the error observable.
func (s *Shop) ClearErr() { s.clearErr() }

// Loading is true only while a refresh fetch is in flight.
func (s *Shop) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Shop) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

func (s *Shop) clearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *Shop) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Shop) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.onChange))
	copy(subs, s.onChange)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
