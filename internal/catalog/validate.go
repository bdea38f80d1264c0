package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProduct = errors.New("invalid product")

// Upper bounds that keep cart arithmetic well inside int64.
const (
	MaxPrice      int64 = 1_000_000_000_000
	MaxAddOnCount       = 999
)

// Validate rejects records the cart cannot hold: non-positive id, blank name,
// negative price or stock, or a malformed add-on.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidProduct, p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product %d has no name", ErrInvalidProduct, p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product %d has negative price", ErrInvalidProduct, p.ID)
	}
	if p.Price > MaxPrice {
		return fmt.Errorf("%w: product %d price exceeds %d", ErrInvalidProduct, p.ID, MaxPrice)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: product %d has negative stock", ErrInvalidProduct, p.ID)
	}
	for _, a := range p.Additions {
		for _, ap := range a.Products {
			if err := ap.Validate(); err != nil {
				return fmt.Errorf("product %d addition %d: %w", p.ID, a.ID, err)
			}
		}
	}
	return nil
}

func (a AdditionProduct) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: add-on %d has no name", ErrInvalidProduct, a.AdditionProductID)
	}
	if a.Price < 0 || a.Price > MaxPrice {
		return fmt.Errorf("%w: add-on %d price out of range", ErrInvalidProduct, a.AdditionProductID)
	}
	if a.Count < 1 || a.Count > MaxAddOnCount {
		return fmt.Errorf("%w: add-on %d count must be between 1 and %d", ErrInvalidProduct, a.AdditionProductID, MaxAddOnCount)
	}
	return nil
}

// DecodeProducts parses a product list as returned by the commerce API, which
// answers either with {"items": [...]} or with a bare array. Records failing
// Validate are dropped; the number dropped is returned alongside the rest.
func DecodeProducts(raw []byte) ([]Product, int, error) {
	var list []Product

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, 0, fmt.Errorf("decode products: %w", err)
		}
	} else {
		var page struct {
			Items []Product `json:"items"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, 0, fmt.Errorf("decode products: %w", err)
		}
		list = page.Items
	}

	valid := make([]Product, 0, len(list))
	dropped := 0
	for _, p := range list {
		if err := p.Validate(); err != nil {
			dropped++
			continue
		}
		valid = append(valid, p)
	}
	return valid, dropped, nil
}
