package admin

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, errors.New("price required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errors.New("price must be a decimal number")
	}
	if price.IsNegative() {
		return decimal.Decimal{}, errors.New("price must not be negative")
	}
	return price, nil
}
