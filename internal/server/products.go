package server

import (
	"net/http"

	"github.com/fjod/go_shop/internal/domain"
)

// listProducts serves the full catalog as a JSON array. This is the payload
// the cart refresh reconciles against.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.FetchAll(r.Context())
	if err != nil {
		s.log.Error("failed to list products", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}
	// Serve [] rather than null when the catalog is empty.
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}
