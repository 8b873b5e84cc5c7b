package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantshop/internal/domain"
)

type stubCatalog struct {
	products []domain.Product
	listErr  error
	calls    int
}

func (s *stubCatalog) ListActive(_ context.Context) ([]domain.Product, error) {
	s.calls++
	return s.products, s.listErr
}

func (s *stubCatalog) GetActive(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestReconcile_JoinsLiveCatalogData(t *testing.T) {
	catalog := &stubCatalog{products: []domain.Product{
		{ID: "p1", Title: "Monstera", Price: dec("10.00"), Images: []string{"a.jpg"}},
		{ID: "p2", Title: "Ficus", Price: dec("25.50")},
	}}
	entries := []Entry{{ProductID: "p2", Quantity: 1}, {ProductID: "p1", Quantity: 3}}

	items, dropped, err := Reconcile(context.Background(), catalog, entries)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Empty(t, dropped)

	// Insertion order preserved, live fields joined in.
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "Ficus", items[0].Title)
	assert.True(t, items[0].Price.Equal(dec("25.50")))
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, []string{"a.jpg"}, items[1].Images)
	assert.Equal(t, 3, items[1].Quantity)
}

func TestReconcile_DropsUnresolvableEntries(t *testing.T) {
	catalog := &stubCatalog{products: []domain.Product{{ID: "p1", Title: "Monstera", Price: dec("10.00")}}}
	entries := []Entry{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}

	items, dropped, err := Reconcile(context.Background(), catalog, entries)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, []string{"p2"}, dropped)
}

func TestReconcile_EmptyInputSkipsCatalogCall(t *testing.T) {
	catalog := &stubCatalog{}
	items, dropped, err := Reconcile(context.Background(), catalog, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, dropped)
	assert.Zero(t, catalog.calls)
}

func TestReconcile_CatalogErrorWrapped(t *testing.T) {
	catalog := &stubCatalog{listErr: errors.New("connection refused")}
	_, _, err := Reconcile(context.Background(), catalog, []Entry{{ProductID: "p1", Quantity: 1}})

	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
}

func TestReconcile_Idempotent(t *testing.T) {
	catalog := &stubCatalog{products: []domain.Product{{ID: "p1", Title: "Monstera", Price: dec("10.00")}}}
	entries := []Entry{{ProductID: "p1", Quantity: 2}}

	first, _, err := Reconcile(context.Background(), catalog, entries)
	require.NoError(t, err)
	second, _, err := Reconcile(context.Background(), catalog, entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
