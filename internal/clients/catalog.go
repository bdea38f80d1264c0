package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type CatalogClient struct {
	c      *Client
	logger *zap.Logger
}

func NewCatalogClient(c *Client, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{c: c, logger: logger}
}

func (cc *CatalogClient) ListProductTypes(ctx context.Context) ([]catalog.ProductType, error) {
	raw, err := cc.c.getRaw(ctx, "/website/product/product-types", "")
	if err != nil {
		return nil, err
	}
	var types []catalog.ProductType
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, fmt.Errorf("decode product types: %w", err)
	}
	return types, nil
}

func (cc *CatalogClient) ListProductsByType(ctx context.Context, typeID int64) ([]catalog.Product, error) {
	return cc.listProducts(ctx, "/website/product/by-product-type-id/"+strconv.FormatInt(typeID, 10))
}

func (cc *CatalogClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return cc.listProducts(ctx, "/pos/product")
}

func (cc *CatalogClient) listProducts(ctx context.Context, path string) ([]catalog.Product, error) {
	raw, err := cc.c.getRaw(ctx, path, "")
	if err != nil {
		return nil, err
	}
	products, dropped, err := catalog.DecodeProducts(raw)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		cc.logger.Warn("dropped malformed products", zap.String("path", path), zap.Int("dropped", dropped))
	}
	return products, nil
}
