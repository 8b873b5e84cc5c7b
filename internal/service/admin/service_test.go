package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"plantshop/internal/domain"
)

type stubProductRepo struct {
	created *domain.Product
	updated *domain.Product
}

func (s *stubProductRepo) ListActive(_ context.Context, _ string) ([]domain.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) GetActive(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (s *stubProductRepo) List(_ context.Context) ([]domain.Product, error) { return nil, nil }
func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "p1"
	s.created = &p
	return &p, nil
}
func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.updated = &p
	return &p, nil
}
func (s *stubProductRepo) Delete(_ context.Context, _ string) error { return nil }

type stubOrderRepo struct {
	statusID  string
	statusVal string
}

func (s *stubOrderRepo) Create(_ context.Context, _ domain.Order) (string, error) { return "", nil }
func (s *stubOrderRepo) List(_ context.Context) ([]domain.Order, error)           { return nil, nil }
func (s *stubOrderRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}
func (s *stubOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	s.statusID = id
	s.statusVal = status
	return nil
}
func (s *stubOrderRepo) Count(_ context.Context) (int, error) { return 0, nil }

func TestCreateProduct_ParsesPrice(t *testing.T) {
	products := &stubProductRepo{}
	svc := New(products, nil, nil, nil)

	p, err := svc.CreateProduct(context.Background(), ProductInput{Title: "Monstera", Price: "12.50", Active: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("price not parsed: %s", p.Price)
	}
	if products.created.Images == nil {
		t.Fatal("images must default to an empty list")
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc := New(&stubProductRepo{}, nil, nil, nil)

	cases := []ProductInput{
		{Title: "", Price: "10"},
		{Title: "Monstera", Price: ""},
		{Title: "Monstera", Price: "abc"},
		{Title: "Monstera", Price: "-1"},
	}
	for _, in := range cases {
		if _, err := svc.CreateProduct(context.Background(), in); err == nil {
			t.Fatalf("expected error for input %+v", in)
		}
	}
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := New(nil, nil, orders, nil)

	if err := svc.UpdateOrderStatus(context.Background(), "o1", "Lost"); err == nil {
		t.Fatal("expected unsupported status to be rejected")
	}
	if err := svc.UpdateOrderStatus(context.Background(), "o1", domain.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if orders.statusID != "o1" || orders.statusVal != domain.OrderStatusShipped {
		t.Fatalf("status not forwarded: %s %s", orders.statusID, orders.statusVal)
	}
}
