package cart

import "github.com/shopspring/decimal"

// CouponCode is the one recognized coupon; it takes a flat percentage off
// the subtotal. Any other non-empty code is rejected.
const CouponCode = "DISCOUNT10"

var (
	couponRate = decimal.NewFromFloat(0.10)

	// DefaultShippingFee is charged once per order, independent of item
	// count or weight.
	DefaultShippingFee = decimal.NewFromInt(16)
)

// Subtotal sums price*quantity over the line items. No rounding happens
// here; amounts stay exact until presentation.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ApplyCoupon maps a code to a discount off the given subtotal. An empty
// code means no coupon and is not an error; an unrecognized code yields a
// zero discount and ErrInvalidCoupon.
func ApplyCoupon(subtotal decimal.Decimal, code string) (decimal.Decimal, error) {
	switch code {
	case "":
		return decimal.Zero, nil
	case CouponCode:
		return subtotal.Mul(couponRate), nil
	default:
		return decimal.Zero, ErrInvalidCoupon
	}
}

// Total computes subtotal - discount + shipping. The discount is clamped to
// the subtotal so the total can never drop below the shipping fee.
func Total(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return subtotal.Sub(discount).Add(shipping)
}
