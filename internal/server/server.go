// Package server exposes the storefront REST API: product listing, signup
// and login, the session cart, checkout and order lookup.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/kv"
	"github.com/fjod/go_shop/internal/orders"
	"github.com/fjod/go_shop/internal/shop"
	"github.com/fjod/go_shop/internal/store"
	"github.com/fjod/go_shop/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const sessionCookie = "session_id"

type Server struct {
	products *catalog.Repository
	users    *users.Service
	orders   *orders.Service
	provider catalog.Provider
	medium   kv.Store
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*shop.Shop
}

func New(products *catalog.Repository, userSvc *users.Service, orderSvc *orders.Service,
	provider catalog.Provider, medium kv.Store, log *slog.Logger) *Server {
	return &Server{
		products: products,
		users:    userSvc,
		orders:   orderSvc,
		provider: provider,
		medium:   medium,
		log:      log,
		sessions: make(map[string]*shop.Shop),
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/Products", s.listProducts)
	r.Post("/signup", s.signup)
	r.Post("/login", s.login)

	r.Route("/Cart", func(r chi.Router) {
		r.Get("/", s.getCart)
		r.Delete("/", s.clearCart)
		r.Post("/items", s.addItem)
		r.Put("/items/{product_id}", s.updateQuantity)
		r.Delete("/items/{product_id}", s.removeItem)
		r.Post("/refresh", s.refreshCart)
	})

	r.Post("/checkout", s.checkout)
	r.Get("/orders/{order_id}", s.getOrder)

	return r
}

// sessionShop returns the cart engine for the request's session, creating
// the session (and its cookie) on first contact. Each session's cart lives
// under its own key prefix in the shared persistence medium.
func (s *Server) sessionShop(w http.ResponseWriter, r *http.Request) *shop.Shop {
	var sid string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		sid = c.Value
	} else {
		sid = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok := s.sessions[sid]; ok {
		return sh
	}
	st := store.NewCartStore(s.medium, s.log, "cart:"+sid+":")
	sh := shop.New(r.Context(), st, s.provider, s.log)
	s.sessions[sid] = sh
	return sh
}
