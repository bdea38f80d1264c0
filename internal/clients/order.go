package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

// CreateOrder submits req once; retrying is left to the caller.
func (oc *OrderClient) CreateOrder(ctx context.Context, req order.Request) (order.Response, error) {
	var resp order.Response
	if err := oc.c.postJSON(ctx, "/pos/order", req, &resp); err != nil {
		return order.Response{}, err
	}
	return resp, nil
}
