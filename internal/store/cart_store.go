// Package store persists cart state through a kv.Store using the two entries
// the storefront has always written: the serialized line collection and the
// derived item count.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/kv"
)

const (
	itemsKey = "cartItems"
	countKey = "cartCount"
)

// CartStore adapts a kv.Store to cart load/save/clear. Persistence is
// best-effort: read problems self-heal to an empty cart and write problems
// are logged without failing the mutation that triggered them.
type CartStore struct {
	kv     kv.Store
	log    *slog.Logger
	prefix string
}

// NewCartStore scopes the two cart keys under the given prefix, so several
// carts (one per session) can share one medium.
func NewCartStore(store kv.Store, log *slog.Logger, prefix string) *CartStore {
	return &CartStore{kv: store, log: log, prefix: prefix}
}

// Load reads the persisted lines. A missing blob means no prior cart; a blob
// that fails to parse is discarded together with the count entry and an empty
// cart is returned. Neither case is an error for the caller.
func (s *CartStore) Load(ctx context.Context) []domain.CartLine {
	raw, err := s.kv.Get(ctx, s.prefix+itemsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("cart load failed, starting empty", "error", err)
		}
		return nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.Warn("discarding corrupt cart blob", "error", err)
		s.Clear(ctx)
		return nil
	}

	// Coerce whatever was persisted back into valid lines.
	valid := lines[:0]
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		l.Quantity = domain.ClampQuantity(l.Quantity)
		valid = append(valid, l)
	}
	return valid
}

// Save writes the line collection and the derived item count as two
// independent entries, overwriting previous values.
func (s *CartStore) Save(ctx context.Context, lines []domain.CartLine) {
	blob, err := json.Marshal(lines)
	if err != nil {
		s.log.Error("cart marshal failed, skipping save", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.prefix+itemsKey, string(blob)); err != nil {
		s.log.Error("cart items save failed", "error", err)
	}
	count := strconv.Itoa(domain.ItemCount(lines))
	if err := s.kv.Set(ctx, s.prefix+countKey, count); err != nil {
		s.log.Error("cart count save failed", "error", err)
	}
}

// Clear erases both persisted entries.
func (s *CartStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.prefix+itemsKey); err != nil {
		s.log.Error("cart items delete failed", "error", err)
	}
	if err := s.kv.Delete(ctx, s.prefix+countKey); err != nil {
		s.log.Error("cart count delete failed", "error", err)
	}
}
