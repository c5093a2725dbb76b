// Package cart holds the in-memory cart aggregate. Every mutation recomputes
// the derived count and total from the lines and writes through to the
// persistent store before returning.
package cart

import (
	"context"
	"sync"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/store"
)

// Cart keeps at most one line per product id, in insertion order.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
	store *store.CartStore
}

// Load builds a cart from whatever the store holds.
func Load(ctx context.Context, st *store.CartStore) *Cart {
	return &Cart{lines: st.Load(ctx), store: st}
}

// AddLine puts one unit of the product into the cart: an existing line's
// quantity is incremented, otherwise a new line with quantity one is
// appended. A product without an id is rejected with no mutation.
func (c *Cart) AddLine(ctx context.Context, p domain.Product) error {
	line, err := domain.NewCartLine(p)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity = domain.ClampQuantity(c.lines[i].Quantity) + 1
	} else {
		c.lines = append(c.lines, line)
	}
	c.store.Save(ctx, c.lines)
	return nil
}

// RemoveLine deletes the product's line. A missing line is a no-op, not an
// error.
func (c *Cart) RemoveLine(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.store.Save(ctx, c.lines)
}

// SetQuantity updates the line's quantity, clamped to a minimum of one.
// A missing line is a no-op.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = domain.ClampQuantity(quantity)
	c.store.Save(ctx, c.lines)
}

// Clear empties the cart and erases the persisted entries.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.store.Clear(ctx)
}

// ReplaceLines swaps in a reconciled line set and writes it through.
func (c *Cart) ReplaceLines(ctx context.Context, lines []domain.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = lines
	c.store.Save(ctx, c.lines)
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ItemCount(c.lines)
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.TotalPrice(c.lines)
}

func (c *Cart) HasLine(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index(productID) >= 0
}

func (c *Cart) GetLine(productID string) (domain.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return domain.CartLine{}, false
}

// Lines returns a copy of the current line set.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// index must be called with the lock held.
func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
