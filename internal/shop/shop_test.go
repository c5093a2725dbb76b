package shop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/kv"
	"github.com/fjod/go_shop/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
}

func (m *mockProvider) FetchAll(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestShop(t *testing.T, p *mockProvider) (*Shop, *store.CartStore) {
	t.Helper()
	st := store.NewCartStore(kv.NewMemory(), testLogger(), "")
	return New(context.Background(), st, p, testLogger()), st
}

func mug() domain.Product {
	return domain.Product{ID: "p1", Name: "Mug", Price: "R10", Description: "a mug"}
}

func lamp() domain.Product {
	return domain.Product{ID: "p2", Name: "Lamp", Price: "R19.99", Description: "a lamp"}
}

func TestAddToCart_Success(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})
	ctx := context.Background()

	require.True(t, sut.AddToCart(ctx, mug()))
	assert.Equal(t, 1, sut.ItemCount())
	assert.InDelta(t, 10, sut.CartTotal(), 0.0001)
	assert.Empty(t, sut.Err())
	assert.True(t, sut.IsInCart("p1"))

	item, ok := sut.CartItem("p1")
	require.True(t, ok)
	assert.Equal(t, "Mug", item.Name)
}

func TestAddToCart_InvalidProduct(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})

	ok := sut.AddToCart(context.Background(), domain.Product{Name: "nameless"})

	assert.False(t, ok)
	assert.Equal(t, "Failed to add item to cart", sut.Err())
	assert.Equal(t, 0, sut.ItemCount())
}

func TestErr_ClearedByNextOperation(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})
	ctx := context.Background()

	sut.AddToCart(ctx, domain.Product{})
	require.NotEmpty(t, sut.Err())

	sut.AddToCart(ctx, mug())
	assert.Empty(t, sut.Err())
}

func TestFacadeScenario(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})
	ctx := context.Background()

	require.True(t, sut.AddToCart(ctx, mug()))
	assert.Equal(t, 1, sut.ItemCount())
	assert.InDelta(t, 10, sut.CartTotal(), 0.0001)

	require.True(t, sut.AddToCart(ctx, mug()))
	assert.Equal(t, 2, sut.ItemCount())
	require.Len(t, sut.Lines(), 1)
	assert.InDelta(t, 20, sut.CartTotal(), 0.0001)

	require.True(t, sut.RemoveFromCart(ctx, "p1"))
	assert.Equal(t, 0, sut.ItemCount())
	assert.InDelta(t, 0, sut.CartTotal(), 0.0001)
}

func TestUpdateQuantity_Clamps(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})
	ctx := context.Background()
	sut.AddToCart(ctx, mug())

	sut.UpdateQuantity(ctx, "p1", -5)
	item, _ := sut.CartItem("p1")
	assert.Equal(t, 1, item.Quantity)

	sut.UpdateQuantity(ctx, "p1", 3)
	item, _ = sut.CartItem("p1")
	assert.Equal(t, 3, item.Quantity)
}

func TestRefresh_DropsVanishedAndKeepsQuantities(t *testing.T) {
	provider := &mockProvider{products: []domain.Product{
		{ID: "p1", Name: "Mug v2", Price: "R12", Description: "updated"},
	}}
	sut, st := newTestShop(t, provider)
	ctx := context.Background()

	sut.AddToCart(ctx, mug())
	sut.AddToCart(ctx, mug())
	sut.AddToCart(ctx, lamp())

	enriched := sut.Refresh(ctx)

	require.Len(t, enriched, 1)
	assert.Equal(t, "Mug v2", enriched[0].Name)
	assert.Equal(t, 2, enriched[0].Quantity)
	assert.Equal(t, 2, sut.ItemCount())
	assert.False(t, sut.IsInCart("p2"))
	assert.Empty(t, sut.Err())

	// The reconciled set was written through.
	assert.Len(t, st.Load(ctx), 1)
}

func TestRefresh_EmptyCartSkipsFetch(t *testing.T) {
	provider := &mockProvider{}
	sut, _ := newTestShop(t, provider)

	assert.Empty(t, sut.Refresh(context.Background()))
	assert.Equal(t, 0, provider.callCount())
}

func TestRefresh_FetchErrorIsFailOpen(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	sut, _ := newTestShop(t, provider)
	ctx := context.Background()

	sut.AddToCart(ctx, mug())
	enriched := sut.Refresh(ctx)

	assert.Empty(t, enriched)
	assert.Equal(t, 1, sut.ItemCount(), "existing lines must survive a failed fetch")
	assert.Contains(t, sut.Err(), "Failed to load cart items")
	assert.False(t, sut.Loading())
}

func TestRefresh_NoWriteBackWhenNothingDropped(t *testing.T) {
	provider := &mockProvider{products: []domain.Product{mug(), lamp()}}
	sut, _ := newTestShop(t, provider)
	ctx := context.Background()

	sut.AddToCart(ctx, mug())
	sut.AddToCart(ctx, lamp())

	var changes int
	sut.OnChange(func() { changes++ })

	enriched := sut.Refresh(ctx)
	require.Len(t, enriched, 2)
	assert.Equal(t, 0, changes, "same-length reconciliation must not rewrite the cart")
}

func TestOnChange_NotifiedOnMutations(t *testing.T) {
	sut, _ := newTestShop(t, &mockProvider{})
	ctx := context.Background()

	var changes int
	sut.OnChange(func() { changes++ })

	sut.AddToCart(ctx, mug())
	sut.UpdateQuantity(ctx, "p1", 3)
	sut.RemoveFromCart(ctx, "p1")
	sut.ClearCart(ctx)

	assert.Equal(t, 4, changes)
}

func TestPersistence_SurvivesRestart(t *testing.T) {
	medium := kv.NewMemory()
	st := store.NewCartStore(medium, testLogger(), "")
	ctx := context.Background()

	first := New(ctx, st, &mockProvider{}, testLogger())
	first.AddToCart(ctx, mug())
	first.UpdateQuantity(ctx, "p1", 4)

	second := New(ctx, st, &mockProvider{}, testLogger())
	assert.Equal(t, 4, second.ItemCount())
	assert.True(t, second.IsInCart("p1"))
}

func TestClearCart_ErasesPersistedState(t *testing.T) {
	medium := kv.NewMemory()
	st := store.NewCartStore(medium, testLogger(), "")
	ctx := context.Background()

	sut := New(ctx, st, &mockProvider{}, testLogger())
	sut.AddToCart(ctx, mug())
	require.True(t, sut.ClearCart(ctx))

	assert.Equal(t, 0, sut.ItemCount())
	_, err := medium.Get(ctx, "cartItems")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
