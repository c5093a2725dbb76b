package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_shop/internal/domain"
)

// ErrProductNotFound is returned when a product id has no catalog row.
var ErrProductNotFound = errors.New("product not found")

// Repository is the authoritative catalog behind the products endpoint.
// It satisfies Provider, so in a single-binary deployment the cart engine
// reconciles directly against it without going through HTTP.
type Repository struct {
	db *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) FetchAll(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, image_url, price, description
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	query := `
		SELECT id, name, image_url, price, description
		FROM products
		WHERE id = $1
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.ImageURL, &p.Price, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}
