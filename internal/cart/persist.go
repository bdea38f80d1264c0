package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

const DefaultKey = "cart"

// Persister loads and saves the list of line items.
type Persister interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}

// BlobPersister serializes the cart as one JSON array stored under a fixed key.
type BlobPersister struct {
	store storage.BlobStore
	key   string
}

func NewBlobPersister(store storage.BlobStore, key string) *BlobPersister {
	if key == "" {
		key = DefaultKey
	}
	return &BlobPersister{store: store, key: key}
}

func (p *BlobPersister) Key() string { return p.key }

// Load returns storage.ErrNotFound (wrapped) when nothing was saved yet.
func (p *BlobPersister) Load(ctx context.Context) ([]LineItem, error) {
	raw, err := p.store.Get(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("load cart %q: %w", p.key, err)
	}
	return Decode(raw)
}

func (p *BlobPersister) Save(ctx context.Context, items []LineItem) error {
	raw, err := Encode(items)
	if err != nil {
		return err
	}
	if err := p.store.Put(ctx, p.key, raw); err != nil {
		return fmt.Errorf("save cart %q: %w", p.key, err)
	}
	return nil
}

func Encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return raw, nil
}

// Decode parses a persisted cart. Entries that break the cart invariants
// (invalid product or add-on, quantity below 1, repeated product id) are
// dropped. Quantities above MaxQuantity are clamped.
func Decode(raw []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	seen := make(map[int64]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.Product.Validate() != nil || !validAddOns(it.AddOns) {
			continue
		}
		it.Quantity = min(it.Quantity, MaxQuantity)
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}

func validAddOns(addOns []catalog.AdditionProduct) bool {
	for _, a := range addOns {
		if a.Validate() != nil {
			return false
		}
	}
	return true
}
