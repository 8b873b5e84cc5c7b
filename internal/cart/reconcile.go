package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"plantshop/internal/domain"
)

// CatalogReader is the live, read-only catalog projection. ListActive must
// return only products flagged active, with images already normalized.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetActive(ctx context.Context, id string) (*domain.Product, error)
}

// LineItem is an Entry joined with current catalog data. Title and price are
// always the live values, never whatever the client last saw.
type LineItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	Quantity  int             `json:"quantity"`
}

// Reconcile joins entries against the catalog in one batch read. Entries
// whose product no longer resolves are dropped; their ids come back in the
// second return value so callers can prune the durable store. Output order
// follows input order. An empty input makes no catalog call at all.
func Reconcile(ctx context.Context, catalog CatalogReader, entries []Entry) ([]LineItem, []string, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	products, err := catalog.ListActive(ctx)
	if err != nil {
		return nil, nil, &CatalogError{Err: err}
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]LineItem, 0, len(entries))
	var dropped []string
	for _, e := range entries {
		p, ok := byID[e.ProductID]
		if !ok {
			dropped = append(dropped, e.ProductID)
			continue
		}
		items = append(items, LineItem{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Images:    p.Images,
			Quantity:  e.Quantity,
		})
	}
	return items, dropped, nil
}
