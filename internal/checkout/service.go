// Package checkout turns the current cart into a submitted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// ErrCheckoutInProgress is returned while another PlaceOrder call for the
// same cart has not finished.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

type OrderSubmitter interface {
	CreateOrder(ctx context.Context, req order.Request) (order.Response, error)
}

type EventsPublisher interface {
	PublishOrderPlaced(ctx context.Context, meta events.PublishMetadata, req order.Request, resp order.Response) error
}

type Service struct {
	cart      *cart.Store
	orders    OrderSubmitter
	publisher EventsPublisher
	// partition key for published events
	cartKey string
	logger  *zap.Logger

	submitting atomic.Bool
}

// NewService wires checkout. publisher may be nil, in which case no events
// are published.
func NewService(store *cart.Store, orders OrderSubmitter, publisher EventsPublisher, cartKey string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cartKey == "" {
		cartKey = cart.DefaultKey
	}
	return &Service{
		cart:      store,
		orders:    orders,
		publisher: publisher,
		cartKey:   cartKey,
		logger:    logger,
	}
}

// PlaceOrder submits the cart once. The cart is cleared only after the
// commerce API accepts the order; on any error it is left as it was.
// Only one submission runs at a time; overlapping calls get
// ErrCheckoutInProgress.
func (s *Service) PlaceOrder(ctx context.Context, form order.Form) (order.Response, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return order.Response{}, ErrCheckoutInProgress
	}
	defer s.submitting.Store(false)

	snap := s.cart.Snapshot()
	if snap.IsEmpty() {
		return order.Response{}, order.ErrEmptyCart
	}

	req, err := order.Build(snap, form)
	if err != nil {
		return order.Response{}, err
	}

	resp, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warn("order rejected",
			zap.Int("lines", len(req.Products)),
			zap.Int64("total", req.TotalAmount),
			zap.Error(err),
		)
		return order.Response{}, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, req, resp)
	s.cart.ClearCart(ctx)

	s.logger.Info("order placed",
		zap.Int64("order_id", resp.ID),
		zap.String("status", resp.Status),
		zap.Int64("total", req.TotalAmount),
	)
	return resp, nil
}

// publish is best effort; the order already exists upstream.
func (s *Service) publish(ctx context.Context, req order.Request, resp order.Response) {
	if s.publisher == nil {
		return
	}
	meta := events.PublishMetadata{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  s.cartKey,
	}
	if err := s.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), meta, req, resp); err != nil {
		s.logger.Warn("OrderPlaced not published", zap.Int64("order_id", resp.ID), zap.Error(err))
	}
}
