package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"plantshop/internal/domain"
)

// Cart is the session-scoped cart state: the single writer over one durable
// store. All operations run on the session's interaction path; there is no
// background mutation. In-memory entries are authoritative; the durable
// store is a convenience cache that survives restarts, and a failed save
// only produces a PersistenceWarning through the warning handler.
type Cart struct {
	entries  []Entry
	coupon   string
	store    *EntryStore
	catalog  CatalogReader
	identity Identity
	orders   OrderSink
	shipping decimal.Decimal
	logger   *zap.SugaredLogger
	warn     func(*PersistenceWarning)
}

// Identity resolves the currently authenticated user. A logged-out session
// yields (nil, nil).
type Identity interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// OrderSink persists a completed order and returns its id.
type OrderSink interface {
	CreateOrder(ctx context.Context, order domain.Order) (string, error)
}

// View is the display-ready cart summary.
type View struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Coupon   string          `json:"coupon,omitempty"`
}

type Option func(*Cart)

// WithShippingFee overrides the flat per-order shipping fee.
func WithShippingFee(fee decimal.Decimal) Option {
	return func(c *Cart) { c.shipping = fee }
}

// WithWarningHandler receives non-fatal durable-store failures. The default
// handler only logs them.
func WithWarningHandler(fn func(*PersistenceWarning)) Option {
	return func(c *Cart) { c.warn = fn }
}

// NewSession builds a Cart over the given collaborators and loads whatever
// the durable store holds. Malformed stored content degrades to an empty
// cart; an unreadable store starts empty with a warning.
func NewSession(ctx context.Context, store *EntryStore, catalog CatalogReader, identity Identity, orders OrderSink, logger *zap.SugaredLogger, opts ...Option) *Cart {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Cart{
		store:    store,
		catalog:  catalog,
		identity: identity,
		orders:   orders,
		shipping: DefaultShippingFee,
		logger:   logger,
	}
	if c.warn == nil {
		c.warn = func(w *PersistenceWarning) { logger.Warnf("cart: %v", w) }
	}
	for _, opt := range opts {
		opt(c)
	}

	entries, err := store.Load(ctx)
	if err != nil {
		c.warn(&PersistenceWarning{Op: "load", Err: err})
		entries = nil
	}
	c.entries = entries

	coupon, err := store.LoadCoupon(ctx)
	if err != nil {
		c.warn(&PersistenceWarning{Op: "load coupon", Err: err})
		coupon = ""
	}
	// A stored code that is no longer recognized is dropped, not surfaced.
	if _, err := ApplyCoupon(decimal.Zero, coupon); err != nil {
		coupon = ""
	}
	c.coupon = coupon
	return c
}

// Entries returns a copy of the current entry list.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// AddItem puts one unit of the product into the cart, merging into an
// existing entry for the same id. The product must resolve in the live
// catalog; otherwise domain.ErrNotFound.
func (c *Cart) AddItem(ctx context.Context, productID string) error {
	if _, err := c.catalog.GetActive(ctx, productID); err != nil {
		return err
	}
	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity++
			c.persist(ctx)
			return nil
		}
	}
	c.entries = append(c.entries, Entry{ProductID: productID, Quantity: 1})
	c.persist(ctx)
	return nil
}

// SetQuantity sets the entry's quantity, clamped to a floor of 1. Zero or
// negative never removes the entry; removal is a distinct operation.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity = quantity
			c.persist(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

// RemoveItem deletes the entry for the product id, if present.
func (c *Cart) RemoveItem(ctx context.Context, productID string) error {
	kept := c.entries[:0]
	removed := false
	for _, e := range c.entries {
		if e.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	if !removed {
		return domain.ErrNotFound
	}
	c.persist(ctx)
	return nil
}

// ApplyCoupon records the coupon for this session and writes it through to
// the durable store, so a later session over the same store keeps the
// discount. An unrecognized code clears any previous discount and returns
// ErrInvalidCoupon; checkout is not blocked by it.
func (c *Cart) ApplyCoupon(ctx context.Context, code string) error {
	if _, err := ApplyCoupon(decimal.Zero, code); err != nil {
		c.coupon = ""
		c.persistCoupon(ctx)
		return err
	}
	c.coupon = code
	c.persistCoupon(ctx)
	return nil
}

// View reconciles the cart against the live catalog and prices it. Entries
// whose product no longer resolves are pruned from the durable store.
func (c *Cart) View(ctx context.Context) (View, error) {
	items, err := c.reconcile(ctx)
	if err != nil {
		return View{}, err
	}
	return c.price(items), nil
}

func (c *Cart) reconcile(ctx context.Context) ([]LineItem, error) {
	items, dropped, err := Reconcile(ctx, c.catalog, c.entries)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		c.logger.Infow("cart: pruned unresolvable entries", "productIds", dropped)
		kept := make([]Entry, 0, len(items))
		for _, item := range items {
			kept = append(kept, Entry{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		c.entries = kept
		c.persist(ctx)
	}
	return items, nil
}

func (c *Cart) price(items []LineItem) View {
	subtotal := Subtotal(items)
	discount, _ := ApplyCoupon(subtotal, c.coupon)
	if items == nil {
		items = []LineItem{}
	}
	return View{
		Items:    items,
		Subtotal: subtotal,
		Discount: discount,
		Shipping: c.shipping,
		Total:    Total(subtotal, discount, c.shipping),
		Coupon:   c.coupon,
	}
}

// persist writes the entry list through to the durable store. Failures are
// non-fatal: the in-memory cart stays authoritative for the session.
func (c *Cart) persist(ctx context.Context) {
	if err := c.store.Save(ctx, c.entries); err != nil {
		c.warn(&PersistenceWarning{Op: "save", Err: err})
	}
}

func (c *Cart) persistCoupon(ctx context.Context) {
	if err := c.store.SaveCoupon(ctx, c.coupon); err != nil {
		c.warn(&PersistenceWarning{Op: "save coupon", Err: err})
	}
}
