package cart

import (
	"context"
	"encoding/json"
	"errors"
)

// Entry is one durable cart line: a catalog reference plus quantity. The
// cart never persists prices or titles as trusted data; those are refreshed
// from the live catalog on every view.
type Entry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// EntryStore serializes the cart entry list under one durable key.
type EntryStore struct {
	kv  KV
	key string
}

func NewEntryStore(kv KV) *EntryStore {
	return &EntryStore{kv: kv, key: CartKey}
}

// Load returns the stored entries. A missing key or malformed content
// degrades to an empty cart; only a real store failure surfaces as an error.
func (s *EntryStore) Load(ctx context.Context) ([]Entry, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.ProductID == "" || e.Quantity < 1 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *EntryStore) Save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, data)
}

func (s *EntryStore) Clear(ctx context.Context) error {
	return s.kv.Del(ctx, s.key)
}

// LoadCoupon returns the stored coupon code. Missing or malformed content
// degrades to no coupon, matching Load.
func (s *EntryStore) LoadCoupon(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, CouponKey)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return "", nil
		}
		return "", err
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return "", nil
	}
	return code, nil
}

// SaveCoupon persists the coupon code; an empty code removes the key.
func (s *EntryStore) SaveCoupon(ctx context.Context, code string) error {
	if code == "" {
		return s.kv.Del(ctx, CouponKey)
	}
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, CouponKey, data)
}
