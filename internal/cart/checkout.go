package cart

import (
	"context"
	"time"

	"plantshop/internal/domain"
)

// Checkout converts the priced cart into a persisted order, exactly once on
// success. Order of operations matters: the order is created first and the
// durable store cleared only after the sink confirms, so a failed attempt
// never destroys cart contents and a retry is safe. There is no idempotency
// key, so a retry after an ambiguous timeout can create a duplicate order.
func (c *Cart) Checkout(ctx context.Context) (string, error) {
	user, err := c.identity.CurrentUser(ctx)
	if err != nil {
		return "", &IdentityError{Err: err}
	}
	if user == nil {
		return "", ErrNotAuthenticated
	}

	items, err := c.reconcile(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	view := c.price(items)
	order := domain.Order{
		UserID:    user.ID,
		Items:     toOrderLines(items),
		Total:     view.Total,
		Discount:  view.Discount,
		Shipping:  view.Shipping,
		Status:    domain.OrderStatusOpen,
		CreatedAt: time.Now().UTC(),
	}

	orderID, err := c.orders.CreateOrder(ctx, order)
	if err != nil {
		return "", &OrderSinkError{Err: err}
	}

	c.entries = nil
	c.coupon = ""
	if err := c.store.Clear(ctx); err != nil {
		c.warn(&PersistenceWarning{Op: "clear", Err: err})
	}
	if err := c.store.SaveCoupon(ctx, ""); err != nil {
		c.warn(&PersistenceWarning{Op: "clear coupon", Err: err})
	}
	c.logger.Infow("cart: checkout complete", "orderId", orderID, "userId", user.ID, "items", len(items))
	return orderID, nil
}

func toOrderLines(items []LineItem) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Images:    item.Images,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
