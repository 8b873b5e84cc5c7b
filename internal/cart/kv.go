package cart

import (
	"context"
	"errors"
)

// Durable store keys. The cart, its applied coupon, and the liked-products
// list share the same load/save/clear contract but live under independent
// keys.
const (
	CartKey   = "cart"
	CouponKey = "coupon"
	LikedKey  = "likedProducts"
)

// ErrKeyMissing is returned by a KV when the key holds nothing yet.
var ErrKeyMissing = errors.New("key missing")

// KV is the client-owned durable key-value area backing the cart and liked
// stores. One logical key holds one serialized blob. Implementations must
// survive process restarts for the same client profile.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
