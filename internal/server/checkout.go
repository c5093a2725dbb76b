package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_shop/internal/orders"
	"github.com/go-chi/chi/v5"
)

type CheckoutRequestDTO struct {
	FullName      string       `json:"fullName"`
	Email         string       `json:"email"`
	Address       string       `json:"address"`
	Location      string       `json:"location"`
	PaymentMethod string       `json:"paymentMethod"`
	Card          *orders.Card `json:"card,omitempty"`
}

// checkout places an order from the session cart and clears the cart once
// the order is recorded.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sh := s.sessionShop(w, r)

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	info := orders.CheckoutInfo{
		FullName: req.FullName,
		Email:    req.Email,
		Address:  req.Address,
		Location: req.Location,
	}

	order, err := s.orders.Checkout(r.Context(), info, req.PaymentMethod, req.Card, sh.Lines())
	if err != nil {
		if isCheckoutInputError(err) {
			respondError(w, http.StatusBadRequest, "invalid_checkout", err.Error())
			return
		}
		s.log.Error("checkout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	sh.ClearCart(r.Context())
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := s.orders.Order(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		s.log.Error("failed to load order", "order_id", orderID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func isCheckoutInputError(err error) bool {
	return errors.Is(err, orders.ErrMissingCheckout) ||
		errors.Is(err, orders.ErrEmptyCart) ||
		errors.Is(err, orders.ErrUnknownMethod) ||
		errors.Is(err, orders.ErrMissingCardDetails) ||
		errors.Is(err, orders.ErrInvalidCardNumber) ||
		errors.Is(err, orders.ErrInvalidCVV) ||
		errors.Is(err, orders.ErrInvalidExpiry)
}
