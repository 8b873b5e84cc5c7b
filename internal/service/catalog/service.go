package catalog

import (
	"context"

	"plantshop/internal/domain"
	categoryrepo "plantshop/internal/repository/category"
	productrepo "plantshop/internal/repository/product"
)

// Service is the storefront's read-only catalog projection. It also backs
// cart reconciliation, which only ever sees active products.
type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, categories: categories}
}

// ListActive returns every active product. Satisfies the cart engine's
// catalog reader.
func (s *Service) ListActive(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListActive(ctx, "")
}

// ListActiveByCategory filters the active projection by category id.
func (s *Service) ListActiveByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products.ListActive(ctx, categoryID)
}

// GetActive resolves one active product; inactive or unknown ids yield
// domain.ErrNotFound.
func (s *Service) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetActive(ctx, id)
}

// Categories returns the active category list for the shop navigation.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListActive(ctx)
}
