package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/shop"
	"github.com/go-chi/chi/v5"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items   []domain.CartLine `json:"items"`
	Count   int               `json:"count"`
	Total   float64           `json:"total"`
	Error   string            `json:"error,omitempty"`
	Loading bool              `json:"loading"`
}

func cartResponse(sh *shop.Shop) CartResponseDTO {
	items := sh.Lines()
	if items == nil {
		items = []domain.CartLine{}
	}
	return CartResponseDTO{
		Items:   items,
		Count:   sh.ItemCount(),
		Total:   sh.CartTotal(),
		Error:   sh.Err(),
		Loading: sh.Loading(),
	}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)
	respondJSON(w, http.StatusOK, cartResponse(sh))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := s.products.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", fmt.Sprintf("product %s not found", req.ProductID))
			return
		}
		s.log.Error("failed to look up product", "product_id", req.ProductID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to look up product")
		return
	}

	if !sh.AddToCart(r.Context(), product) {
		respondError(w, http.StatusBadRequest, "invalid_product", sh.Err())
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(sh))
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantities below one are clamped, not rejected.
	sh.UpdateQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(sh))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sh.RemoveFromCart(r.Context(), productID)
	respondJSON(w, http.StatusOK, cartResponse(sh))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)
	sh.ClearCart(r.Context())
	respondJSON(w, http.StatusOK, cartResponse(sh))
}

// refreshCart reconciles the session cart against the catalog and returns
// the refreshed state. A failed fetch still answers 200 with the untouched
// cart and the error message in the body.
func (s *Server) refreshCart(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)
	sh.Refresh(r.Context())
	respondJSON(w, http.StatusOK, cartResponse(sh))
}
