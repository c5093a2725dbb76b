// Package orders turns a checked-out cart into a persisted order record.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cannot checkout an empty cart")
	ErrMissingCheckout = errors.New("full name, email, address and location are required")
)

// CheckoutInfo is what the checkout form collects before payment.
type CheckoutInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

func (i CheckoutInfo) Validate() error {
	if i.FullName == "" || i.Email == "" || i.Address == "" || i.Location == "" {
		return ErrMissingCheckout
	}
	return nil
}

// Order is the record written once the mock payment went through. TotalAmount
// keeps the two-decimal display string the confirmation page shows.
type Order struct {
	ID            string            `json:"id"`
	FullName      string            `json:"fullName"`
	Address       string            `json:"address"`
	Location      string            `json:"location"`
	PaymentMethod string            `json:"paymentMethod"`
	TotalAmount   string            `json:"totalAmount"`
	Lines         []domain.CartLine `json:"lines"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type Service struct {
	db  *sql.DB
	log *slog.Logger
}

func NewService(conn *sql.DB, log *slog.Logger) *Service {
	return &Service{db: conn, log: log}
}

// Checkout validates the checkout info and payment details, prices the cart
// lines and persists the resulting order.
func (s *Service) Checkout(ctx context.Context, info CheckoutInfo, method string, card *Card, lines []domain.CartLine) (Order, error) {
	if err := info.Validate(); err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	switch method {
	case MethodCard:
		if card == nil {
			return Order{}, ErrMissingCardDetails
		}
		if err := card.Validate(); err != nil {
			return Order{}, err
		}
	case MethodCashOnDelivery:
	default:
		return Order{}, ErrUnknownMethod
	}

	order := Order{
		ID:            uuid.NewString(),
		FullName:      info.FullName,
		Address:       info.Address,
		Location:      info.Location,
		PaymentMethod: method,
		TotalAmount:   fmt.Sprintf("%.2f", domain.TotalPrice(lines)),
		Lines:         lines,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.insert(ctx, order); err != nil {
		return Order{}, err
	}
	s.log.Info("order placed", "order_id", order.ID, "total", order.TotalAmount, "items", domain.ItemCount(lines))
	return order, nil
}

// Order looks up a previously placed order.
func (s *Service) Order(ctx context.Context, id string) (Order, error) {
	var (
		o     Order
		blob  string
		stamp string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, address, location, payment_method, total_amount, lines, created_at
		 FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.FullName, &o.Address, &o.Location, &o.PaymentMethod, &o.TotalAmount, &blob, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("failed to query order: %w", err)
	}

	if err := json.Unmarshal([]byte(blob), &o.Lines); err != nil {
		return Order{}, fmt.Errorf("failed to decode order lines: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
		o.CreatedAt = t
	}
	return o, nil
}

func (s *Service) insert(ctx context.Context, o Order) error {
	blob, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, full_name, address, location, payment_method, total_amount, lines, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.FullName, o.Address, o.Location, o.PaymentMethod, o.TotalAmount,
		string(blob), o.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}
