package order

import (
	"context"

	"plantshop/internal/domain"
)

type Repository interface {
	// Create persists the order, its line items, and an order.created
	// outbox event in a single transaction, returning the new order id.
	Create(ctx context.Context, o domain.Order) (string, error)
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int, error)
}
