// Package cart owns the shopping cart: its line items, the totals derived
// from them, and the persisted copy that lets the cart survive a restart.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

const defaultPersistTimeout = 2 * time.Second

type Option func(*Store)

// WithPersistTimeout bounds each persistence write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// Store is the single source of truth for the in-progress order.
//
// Mutations never fail. Each one rewrites the persisted copy on a best-effort
// basis: a failed write is logged and the in-memory state stays authoritative.
type Store struct {
	persister      Persister
	logger         *zap.Logger
	persistTimeout time.Duration

	mu        sync.Mutex
	items     []LineItem
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewStore restores the cart from persister. A missing or unreadable blob
// yields an empty cart. A nil persister keeps the cart in memory only.
func NewStore(ctx context.Context, persister Persister, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		persister:      persister,
		logger:         logger,
		persistTimeout: defaultPersistTimeout,
		listeners:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if persister == nil {
		return s
	}

	items, err := persister.Load(ctx)
	switch {
	case err == nil:
		s.items = items
		logger.Info("cart restored", zap.Int("lines", len(items)))
	case errors.Is(err, storage.ErrNotFound):
		logger.Debug("no saved cart, starting empty")
	default:
		logger.Warn("discarding unreadable saved cart", zap.Error(err))
	}
	return s
}

// AddToCart adds one unit of product. A product already in the cart keeps
// the add-ons chosen the first time; addOns is ignored on repeat calls.
// A line already at MaxQuantity is left as is.
func (s *Store) AddToCart(ctx context.Context, product catalog.Product, addOns ...catalog.AdditionProduct) Snapshot {
	return s.mutate(ctx, "add", func() bool {
		if i := s.indexOf(product.ID); i >= 0 {
			if s.items[i].Quantity >= MaxQuantity {
				return false
			}
			s.items[i].Quantity++
			return true
		}
		item := LineItem{Product: product, Quantity: 1}
		if len(addOns) > 0 {
			item.AddOns = append([]catalog.AdditionProduct(nil), addOns...)
		}
		s.items = append(s.items, cloneItems([]LineItem{item})...)
		return true
	})
}

// UpdateQuantity sets the quantity of productID. A quantity of zero or less
// removes the line; one above MaxQuantity is clamped. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) Snapshot {
	return s.mutate(ctx, "update_quantity", func() bool {
		i := s.indexOf(productID)
		if i < 0 {
			return false
		}
		if quantity <= 0 {
			s.removeAt(i)
			return true
		}
		s.items[i].Quantity = min(quantity, MaxQuantity)
		return true
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID int64) Snapshot {
	return s.mutate(ctx, "remove", func() bool {
		i := s.indexOf(productID)
		if i < 0 {
			return false
		}
		s.removeAt(i)
		return true
	})
}

func (s *Store) ClearCart(ctx context.Context) Snapshot {
	return s.mutate(ctx, "clear", func() bool {
		s.items = nil
		return true
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newSnapshot(s.items)
}

func (s *Store) Items() []LineItem { return s.Snapshot().Items }

func (s *Store) TotalItems() int { return s.Snapshot().TotalItems }

func (s *Store) TotalPrice() int64 { return s.Snapshot().TotalPrice }

func (s *Store) State() State { return s.Snapshot().State }

// Subscribe registers fn to receive the new snapshot after every mutation
// that changed the cart. The returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) mutate(ctx context.Context, op string, apply func() bool) Snapshot {
	s.mu.Lock()
	changed := apply()
	snap := newSnapshot(s.items)
	if changed {
		s.persist(ctx, op, snap.Items)
	}
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(snap)
		}
	}
	return snap
}

// persist runs with s.mu held so writes land in mutation order.
func (s *Store) persist(ctx context.Context, op string, items []LineItem) {
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.persister.Save(ctx, items); err != nil {
		s.logger.Warn("cart not persisted", zap.String("op", op), zap.Error(err))
	}
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i:i], s.items[i+1:]...)
}
