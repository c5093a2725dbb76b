package catalog

import (
	"testing"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_DropsVanishedProducts(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "1", Name: "stale", Quantity: 2},
		{ProductID: "2", Name: "gone", Quantity: 1},
	}
	products := []domain.Product{
		{ID: "1", Name: "Fresh Name", Price: "R10", Description: "fresh"},
	}

	enriched := Reconcile(lines, products)

	require.Len(t, enriched, 1)
	assert.Equal(t, "1", enriched[0].ProductID)
	assert.Equal(t, 2, enriched[0].Quantity)
	assert.Equal(t, 2, domain.ItemCount(enriched))
}

func TestReconcile_RefreshesSnapshotFields(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Old Name", Price: "R5", Quantity: 3},
	}
	products := []domain.Product{
		{ID: "p1", Name: "New Name", ImageURL: "new.jpg", Price: "R7.50", Description: "updated"},
	}

	enriched := Reconcile(lines, products)

	require.Len(t, enriched, 1)
	assert.Equal(t, "New Name", enriched[0].Name)
	assert.Equal(t, "new.jpg", enriched[0].ImageURL)
	assert.Equal(t, "R7.50", enriched[0].Price)
	assert.Equal(t, 3, enriched[0].Quantity)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	products := []domain.Product{{ID: "p1"}}
	lines := []domain.CartLine{{ProductID: "p1", Quantity: 1}}

	assert.Empty(t, Reconcile(nil, products))
	assert.Empty(t, Reconcile([]domain.CartLine{}, products))
	assert.Empty(t, Reconcile(lines, nil))
}

func TestReconcile_ClampsQuantity(t *testing.T) {
	lines := []domain.CartLine{{ProductID: "p1", Quantity: 0}}
	products := []domain.Product{{ID: "p1", Price: "R1"}}

	enriched := Reconcile(lines, products)
	require.Len(t, enriched, 1)
	assert.Equal(t, 1, enriched[0].Quantity)
}

func TestReconcile_DuplicateCatalogIDsFirstWins(t *testing.T) {
	lines := []domain.CartLine{{ProductID: "p1", Quantity: 1}}
	products := []domain.Product{
		{ID: "p1", Name: "first"},
		{ID: "p1", Name: "second"},
	}

	enriched := Reconcile(lines, products)
	require.Len(t, enriched, 1)
	assert.Equal(t, "first", enriched[0].Name)
}
