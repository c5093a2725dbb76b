package catalog

import "github.com/fjod/go_shop/internal/domain"

// Reconcile refreshes cart lines against the authoritative catalog. Each
// line whose product still exists comes back carrying the catalog's current
// display fields and the cart's quantity; lines whose product vanished are
// dropped silently. Empty inputs reconcile to an empty result.
func Reconcile(lines []domain.CartLine, products []domain.Product) []domain.CartLine {
	if len(lines) == 0 || len(products) == 0 {
		return nil
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		// First occurrence wins should the catalog ever repeat an id.
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	enriched := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		nl, err := domain.NewCartLine(p)
		if err != nil {
			continue
		}
		nl.Quantity = domain.ClampQuantity(l.Quantity)
		enriched = append(enriched, nl)
	}
	return enriched
}
