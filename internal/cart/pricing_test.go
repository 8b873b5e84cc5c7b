package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Price: dec("10.00"), Quantity: 2},
		{ProductID: "p2", Price: dec("3.33"), Quantity: 3},
	}
	assert.True(t, Subtotal(items).Equal(dec("29.99")))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestApplyCoupon(t *testing.T) {
	discount, err := ApplyCoupon(dec("20.00"), "DISCOUNT10")
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("2.00")), "got %s", discount)

	discount, err = ApplyCoupon(dec("20.00"), "")
	require.NoError(t, err)
	assert.True(t, discount.IsZero())

	discount, err = ApplyCoupon(dec("20.00"), "SAVE50")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
	assert.True(t, discount.IsZero())
}

func TestTotal(t *testing.T) {
	total := Total(dec("20.00"), dec("2.00"), dec("16"))
	assert.True(t, total.Equal(dec("34.00")), "got %s", total)
}

func TestTotal_DiscountClampedToSubtotal(t *testing.T) {
	// The total can never drop below the shipping fee.
	total := Total(dec("5.00"), dec("9.00"), dec("16"))
	assert.True(t, total.Equal(dec("16")), "got %s", total)
}
