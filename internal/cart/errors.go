package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart blocks checkout of a cart with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotAuthenticated blocks checkout when no user is logged in. The
	// caller should prompt a login; the cart contents are kept.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCoupon rejects an unrecognized coupon code. Non-fatal: the
	// cart stays usable and checkout proceeds without a discount.
	ErrInvalidCoupon = errors.New("invalid coupon code")
)

// CatalogError wraps a failed batch read of the live catalog. The cart
// contents are untouched; the caller may retry.
type CatalogError struct {
	Err error
}

func (e *CatalogError) Error() string { return fmt.Sprintf("catalog unreachable: %v", e.Err) }
func (e *CatalogError) Unwrap() error { return e.Err }

// IdentityError wraps a failed current-user lookup during checkout. Distinct
// from ErrNotAuthenticated: the session may well be logged in, the lookup
// itself failed.
type IdentityError struct {
	Err error
}

func (e *IdentityError) Error() string { return fmt.Sprintf("identity lookup: %v", e.Err) }
func (e *IdentityError) Unwrap() error { return e.Err }

// OrderSinkError wraps a failed order write during checkout. The durable
// store is left as-is so the user can retry.
type OrderSinkError struct {
	Err error
}

func (e *OrderSinkError) Error() string { return fmt.Sprintf("order sink: %v", e.Err) }
func (e *OrderSinkError) Unwrap() error { return e.Err }

// PersistenceWarning reports a durable-store failure that was recovered
// locally. In-memory state remains authoritative for the session.
type PersistenceWarning struct {
	Op  string
	Err error
}

func (e *PersistenceWarning) Error() string {
	return fmt.Sprintf("cart store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceWarning) Unwrap() error { return e.Err }
