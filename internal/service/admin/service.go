package admin

import (
	"context"
	"errors"
	"strings"

	"plantshop/internal/domain"
	categoryrepo "plantshop/internal/repository/category"
	orderrepo "plantshop/internal/repository/order"
	productrepo "plantshop/internal/repository/product"
	userrepo "plantshop/internal/repository/user"
)

// Service backs the admin screens: category/product CRUD, the orders board,
// the user list and the dashboard counts.
type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
	orders     orderrepo.Repository
	users      userrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository, orders orderrepo.Repository, users userrepo.Repository) *Service {
	return &Service{products: products, categories: categories, orders: orders, users: users}
}

type ProductInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Images      []string `json:"images"`
	CategoryID  string   `json:"categoryId"`
	Active      bool     `json:"active"`
}

type CategoryInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.products.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("title required")
	}
	return s.categories.Create(ctx, domain.Category{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active,
	})
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("title required")
	}
	return s.categories.Update(ctx, domain.Category{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active,
	})
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateOrderStatus moves an order across the back-office board columns.
func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) error {
	switch status {
	case domain.OrderStatusOpen, domain.OrderStatusShipped, domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		return errors.New("unsupported status")
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DashboardCounts backs the overview cards.
type DashboardCounts struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Orders     int `json:"orders"`
}

func (s *Service) Dashboard(ctx context.Context) (DashboardCounts, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return DashboardCounts{}, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return DashboardCounts{}, err
	}
	orders, err := s.orders.Count(ctx)
	if err != nil {
		return DashboardCounts{}, err
	}
	return DashboardCounts{
		Categories: len(categories),
		Products:   len(products),
		Orders:     orders,
	}, nil
}

func productFromInput(in ProductInput) (domain.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Product{}, errors.New("title required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return domain.Product{}, err
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return domain.Product{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Images:      images,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Active:      in.Active,
	}, nil
}
