package product

import (
	"context"

	"plantshop/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context, categoryID string) ([]domain.Product, error)
	GetActive(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
