package cart

import (
	"context"
	"encoding/json"
	"errors"

	"plantshop/internal/domain"
)

// LikedList is the durable "liked products" id list. Same store contract as
// the cart, independent key, reconciled against the active catalog on read.
type LikedList struct {
	kv  KV
	key string
}

func NewLikedList(kv KV) *LikedList {
	return &LikedList{kv: kv, key: LikedKey}
}

// IDs returns the stored id list; missing or malformed content degrades to
// an empty list.
func (l *LikedList) IDs(ctx context.Context) ([]string, error) {
	data, err := l.kv.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

// Add appends the id if not already present.
func (l *LikedList) Add(ctx context.Context, productID string) error {
	ids, err := l.IDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == productID {
			return nil
		}
	}
	return l.save(ctx, append(ids, productID))
}

// Remove drops the id from the list.
func (l *LikedList) Remove(ctx context.Context, productID string) error {
	ids, err := l.IDs(ctx)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	return l.save(ctx, kept)
}

// Products resolves the liked ids against the active catalog. Ids that no
// longer resolve are silently dropped, matching cart reconciliation.
func (l *LikedList) Products(ctx context.Context, catalog CatalogReader) ([]domain.Product, error) {
	ids, err := l.IDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	all, err := catalog.ListActive(ctx)
	if err != nil {
		return nil, &CatalogError{Err: err}
	}
	byID := make(map[string]domain.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	var out []domain.Product
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *LikedList) save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, l.key, data)
}
