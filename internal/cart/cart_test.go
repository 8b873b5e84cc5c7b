package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantshop/internal/domain"
)

type memKV struct {
	data    map[string][]byte
	setErr  error
	getErr  error
	setKeys []string
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, ErrKeyMissing
	}
	return data, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type stubIdentity struct {
	user *domain.User
	err  error
}

func (s *stubIdentity) CurrentUser(_ context.Context) (*domain.User, error) {
	return s.user, s.err
}

type stubOrders struct {
	orderID string
	err     error
	created []domain.Order
}

func (s *stubOrders) CreateOrder(_ context.Context, order domain.Order) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, order)
	return s.orderID, nil
}

func newTestCart(t *testing.T, kv KV, catalog CatalogReader, identity Identity, orders OrderSink) *Cart {
	t.Helper()
	return NewSession(context.Background(), NewEntryStore(kv), catalog, identity, orders, nil)
}

func plantCatalog() *stubCatalog {
	return &stubCatalog{products: []domain.Product{
		{ID: "p1", Title: "Monstera", Price: dec("10.00"), Images: []string{"monstera.jpg"}, Active: true},
		{ID: "p2", Title: "Ficus", Price: dec("25.50"), Active: true},
	}}
}

func TestAddItem_MergesByProductID(t *testing.T) {
	kv := newMemKV()
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})

	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.AddItem(context.Background(), "p2"))

	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, c.Entries())
}

func TestAddItem_UnknownProduct(t *testing.T) {
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{}, &stubOrders{})
	assert.ErrorIs(t, c.AddItem(context.Background(), "nope"), domain.ErrNotFound)
	assert.Empty(t, c.Entries())
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))

	require.NoError(t, c.SetQuantity(context.Background(), "p1", 5))
	assert.Equal(t, 5, c.Entries()[0].Quantity)

	require.NoError(t, c.SetQuantity(context.Background(), "p1", 0))
	assert.Equal(t, 1, c.Entries()[0].Quantity)

	require.NoError(t, c.SetQuantity(context.Background(), "p1", -3))
	require.Len(t, c.Entries(), 1, "clamping must never remove the entry")
	assert.Equal(t, 1, c.Entries()[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))

	require.NoError(t, c.RemoveItem(context.Background(), "p1"))
	assert.Empty(t, c.Entries())
	assert.ErrorIs(t, c.RemoveItem(context.Background(), "p1"), domain.ErrNotFound)
}

func TestView_NoCoupon(t *testing.T) {
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.SetQuantity(context.Background(), "p1", 2))

	view, err := c.View(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Subtotal.Equal(dec("20.00")), "subtotal %s", view.Subtotal)
	assert.True(t, view.Discount.IsZero())
	assert.True(t, view.Total.Equal(dec("36.00")), "total %s", view.Total)
}

func TestView_WithCoupon(t *testing.T) {
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.SetQuantity(context.Background(), "p1", 2))
	require.NoError(t, c.ApplyCoupon(context.Background(), "DISCOUNT10"))

	view, err := c.View(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Discount.Equal(dec("2.00")), "discount %s", view.Discount)
	assert.True(t, view.Total.Equal(dec("34.00")), "total %s", view.Total)
}

func TestApplyCoupon_InvalidCodeRejected(t *testing.T) {
	kv := newMemKV()
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.ApplyCoupon(context.Background(), "DISCOUNT10"))
	assert.ErrorIs(t, c.ApplyCoupon(context.Background(), "BOGUS"), ErrInvalidCoupon)

	// A rejected code also clears the previously applied one.
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	view, err := c.View(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Discount.IsZero())

	// Durably too, so a later session does not resurrect the discount.
	again := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	view, err = again.View(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Discount.IsZero())
	assert.Empty(t, view.Coupon)
}

func TestApplyCoupon_SurvivesRestart(t *testing.T) {
	kv := newMemKV()
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.SetQuantity(context.Background(), "p1", 2))
	require.NoError(t, c.ApplyCoupon(context.Background(), "DISCOUNT10"))

	// A fresh session over the same store keeps the discount.
	again := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	view, err := again.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DISCOUNT10", view.Coupon)
	assert.True(t, view.Discount.Equal(dec("2.00")), "discount %s", view.Discount)
	assert.True(t, view.Total.Equal(dec("34.00")), "total %s", view.Total)
}

func TestCheckout_UsesCouponFromEarlierSession(t *testing.T) {
	kv := newMemKV()
	user := &domain.User{ID: "u1", Email: "u@example.com"}
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{user: user}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.SetQuantity(context.Background(), "p1", 2))
	require.NoError(t, c.ApplyCoupon(context.Background(), "DISCOUNT10"))

	orders := &stubOrders{orderID: "ord-1"}
	again := newTestCart(t, kv, plantCatalog(), &stubIdentity{user: user}, orders)
	_, err := again.Checkout(context.Background())
	require.NoError(t, err)

	require.Len(t, orders.created, 1)
	assert.True(t, orders.created[0].Discount.Equal(dec("2.00")), "discount %s", orders.created[0].Discount)
	assert.True(t, orders.created[0].Total.Equal(dec("34.00")), "total %s", orders.created[0].Total)

	// The coupon is spent together with the cart.
	_, err = kv.Get(context.Background(), CouponKey)
	assert.ErrorIs(t, err, ErrKeyMissing)
}

func TestView_PrunesDeletedProductOnNextSave(t *testing.T) {
	catalog := plantCatalog()
	kv := newMemKV()
	c := newTestCart(t, kv, catalog, &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.AddItem(context.Background(), "p2"))

	// p2 disappears from the catalog between add and view.
	catalog.products = catalog.products[:1]

	view, err := c.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p1", view.Items[0].ProductID)

	store := NewEntryStore(kv)
	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 1}}, stored)
}

func TestView_SurvivesRestart(t *testing.T) {
	kv := newMemKV()
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))

	again := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 1}}, again.Entries())
}

func TestLoad_MalformedContentDegradesToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.data[CartKey] = []byte(`{"not":"a list"}`)

	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{}, &stubOrders{})
	assert.Empty(t, c.Entries())
}

func TestPersistFailure_IsNonFatalWarning(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("quota exceeded")

	var warned []*PersistenceWarning
	c := NewSession(context.Background(), NewEntryStore(kv), plantCatalog(), &stubIdentity{}, &stubOrders{}, nil,
		WithWarningHandler(func(w *PersistenceWarning) { warned = append(warned, w) }))

	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.Len(t, warned, 1)
	assert.Equal(t, "save", warned[0].Op)
	// In-memory state stays authoritative for the session.
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 1}}, c.Entries())
}

func TestCheckout_RequiresAuthentication(t *testing.T) {
	kv := newMemKV()
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{user: nil}, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))

	_, err := c.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Durable store untouched.
	stored, err := NewEntryStore(kv).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 1}}, stored)
}

func TestCheckout_RequiresNonEmptyCart(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "u@example.com"}
	c := newTestCart(t, newMemKV(), plantCatalog(), &stubIdentity{user: user}, &stubOrders{})

	_, err := c.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_Success(t *testing.T) {
	kv := newMemKV()
	orders := &stubOrders{orderID: "ord-1"}
	user := &domain.User{ID: "u1", Email: "u@example.com"}
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{user: user}, orders)
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	require.NoError(t, c.SetQuantity(context.Background(), "p1", 2))
	require.NoError(t, c.ApplyCoupon(context.Background(), "DISCOUNT10"))

	orderID, err := c.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", orderID)

	require.Len(t, orders.created, 1)
	order := orders.created[0]
	assert.Equal(t, "u1", order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Monstera", order.Items[0].Title)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Discount.Equal(dec("2.00")), "discount %s", order.Discount)
	assert.True(t, order.Shipping.Equal(dec("16")))
	assert.True(t, order.Total.Equal(dec("34.00")), "total %s", order.Total)

	// Cart empty afterwards, both in memory and durably.
	view, err := c.View(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	_, err = kv.Get(context.Background(), CartKey)
	assert.ErrorIs(t, err, ErrKeyMissing)
	_, err = kv.Get(context.Background(), CouponKey)
	assert.ErrorIs(t, err, ErrKeyMissing)
}

func TestCheckout_IdentityLookupErrorWrapped(t *testing.T) {
	kv := newMemKV()
	ident := &stubIdentity{err: errors.New("token table unavailable")}
	c := newTestCart(t, kv, plantCatalog(), ident, &stubOrders{})
	require.NoError(t, c.AddItem(context.Background(), "p1"))

	_, err := c.Checkout(context.Background())
	var identityErr *IdentityError
	require.ErrorAs(t, err, &identityErr)
	assert.NotErrorIs(t, err, ErrNotAuthenticated)

	// Durable store untouched; the user can retry once identity recovers.
	stored, loadErr := NewEntryStore(kv).Load(context.Background())
	require.NoError(t, loadErr)
	assert.Len(t, stored, 1)
}

func TestCheckout_FailureLeavesCartIntact(t *testing.T) {
	kv := newMemKV()
	orders := &stubOrders{err: errors.New("insert failed")}
	user := &domain.User{ID: "u1", Email: "u@example.com"}
	c := newTestCart(t, kv, plantCatalog(), &stubIdentity{user: user}, orders)
	require.NoError(t, c.AddItem(context.Background(), "p1"))
	before, err := c.View(context.Background())
	require.NoError(t, err)

	_, err = c.Checkout(context.Background())
	var sinkErr *OrderSinkError
	require.ErrorAs(t, err, &sinkErr)

	after, err := c.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before.Items, after.Items)
	assert.True(t, before.Total.Equal(after.Total))

	stored, err := NewEntryStore(kv).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
