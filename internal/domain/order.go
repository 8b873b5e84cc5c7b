package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses as moved around the back-office board.
const (
	OrderStatusOpen      = "Open"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Items     []OrderLine     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderLine is the catalog snapshot captured at checkout time.
type OrderLine struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images,omitempty"`
	Quantity  int             `json:"quantity"`
}
