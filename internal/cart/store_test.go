package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

var (
	plov  = catalog.Product{ID: 1, Name: "Plov", Price: 45000, Stock: 10}
	samsa = catalog.Product{ID: 2, Name: "Samsa", Price: 18000, Stock: 30}
	bread = catalog.AdditionProduct{AdditionID: 5, AdditionProductID: 51, Name: "Bread", Price: 3000, Count: 2}
	salad = catalog.AdditionProduct{AdditionID: 5, AdditionProductID: 52, Name: "Salad", Price: 9000, Count: 1}
)

type failingPersister struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingPersister) Load(ctx context.Context) ([]LineItem, error) { return nil, f.loadErr }

func (f *failingPersister) Save(ctx context.Context, items []LineItem) error {
	f.saves++
	return f.saveErr
}

func newTestStore(t *testing.T) (*Store, *BlobPersister) {
	t.Helper()
	p := NewBlobPersister(storage.NewMemoryStore(), "")
	return NewStore(context.Background(), p, zap.NewNop()), p
}

func TestAddToCart_RepeatIncrementsSingleLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for n := 1; n <= 5; n++ {
		snap := s.AddToCart(ctx, plov)
		require.Len(t, snap.Items, 1)
		require.Equal(t, n, snap.Items[0].Quantity)
	}
}

func TestAddToCart_FirstAddOnSelectionSticks(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, plov, bread)
	snap := s.AddToCart(ctx, plov, salad)

	require.Len(t, snap.Items, 1)
	require.Equal(t, 2, snap.Items[0].Quantity)
	require.Equal(t, []catalog.AdditionProduct{bread}, snap.Items[0].AddOns)
}

func TestAddToCart_IgnoresStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := catalog.Product{ID: 9, Name: "Last one", Price: 100, Stock: 1}
	s.AddToCart(ctx, p)
	snap := s.AddToCart(ctx, p)
	require.Equal(t, 2, snap.Items[0].Quantity)
}

func TestAddToCart_PriceSnapshotAtAddTime(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, plov)
	repriced := plov
	repriced.Price = 99000
	snap := s.AddToCart(ctx, repriced)

	require.Equal(t, int64(45000), snap.Items[0].Price)
	require.Equal(t, int64(90000), snap.TotalPrice)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("sets quantity", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.AddToCart(ctx, plov)
		snap := s.UpdateQuantity(ctx, plov.ID, 4)
		require.Equal(t, 4, snap.Items[0].Quantity)
		require.Equal(t, int64(180000), snap.TotalPrice)
	})

	for _, q := range []int{0, -5} {
		s, _ := newTestStore(t)
		s.AddToCart(ctx, plov)
		s.AddToCart(ctx, samsa)
		snap := s.UpdateQuantity(ctx, plov.ID, q)
		require.Len(t, snap.Items, 1, "quantity %d should remove the line", q)
		require.Equal(t, samsa.ID, snap.Items[0].ID)
	}

	t.Run("absent id is a no-op", func(t *testing.T) {
		s, p := newTestStore(t)
		snap := s.UpdateQuantity(ctx, 99, 5)
		require.True(t, snap.IsEmpty())
		require.Equal(t, StateEmpty, snap.State)

		_, err := p.Load(ctx)
		require.ErrorIs(t, err, storage.ErrNotFound, "no-op must not write")
	})
}

func TestQuantityIsCapped(t *testing.T) {
	ctx := context.Background()

	t.Run("update clamps to max", func(t *testing.T) {
		s, p := newTestStore(t)
		s.AddToCart(ctx, plov)
		s.AddToCart(ctx, samsa)

		snap := s.UpdateQuantity(ctx, plov.ID, math.MaxInt64/1000)
		require.Equal(t, MaxQuantity, snap.Items[0].Quantity)
		require.Equal(t, plov.Price*MaxQuantity+samsa.Price, snap.TotalPrice)

		snap = s.UpdateQuantity(ctx, samsa.ID, math.MaxInt)
		require.Equal(t, 2*MaxQuantity, snap.TotalItems)
		require.Positive(t, snap.TotalPrice)

		restored, err := p.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, MaxQuantity, restored[1].Quantity)
	})

	t.Run("add stops at max", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.AddToCart(ctx, plov)
		s.UpdateQuantity(ctx, plov.ID, MaxQuantity)

		calls := 0
		s.Subscribe(func(Snapshot) { calls++ })
		snap := s.AddToCart(ctx, plov)

		require.Equal(t, MaxQuantity, snap.Items[0].Quantity)
		require.Zero(t, calls)
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, plov)
	s.AddToCart(ctx, plov)
	s.AddToCart(ctx, samsa)
	s.UpdateQuantity(ctx, samsa.ID, 3)

	snap := s.RemoveFromCart(ctx, plov.ID)
	require.Len(t, snap.Items, 1)
	require.Equal(t, samsa.ID, snap.Items[0].ID)
	require.Equal(t, 3, snap.Items[0].Quantity)
	require.Equal(t, int64(54000), snap.TotalPrice)

	same := s.RemoveFromCart(ctx, 404)
	require.Equal(t, snap, same)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, plov)
	s.AddToCart(ctx, samsa)
	snap := s.ClearCart(ctx)

	require.Empty(t, snap.Items)
	require.Empty(t, s.Items())
	require.Zero(t, s.TotalItems())
	require.Zero(t, s.TotalPrice())
	require.Equal(t, StateEmpty, s.State())
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, plov, bread)
	s.AddToCart(ctx, plov)
	s.AddToCart(ctx, samsa, salad)
	s.UpdateQuantity(ctx, samsa.ID, 3)

	snap := s.Snapshot()
	var wantPrice int64
	var wantItems int
	for _, it := range snap.Items {
		wantPrice += it.Price * int64(it.Quantity)
		wantItems += it.Quantity
	}
	require.Equal(t, wantPrice, snap.TotalPrice)
	require.Equal(t, int64(144000), snap.TotalPrice)
	require.Equal(t, wantItems, snap.TotalItems)
	require.Equal(t, 5, snap.TotalItems)
	require.Equal(t, bread.Total()+salad.Total(), snap.AddOnsTotal)
	require.Equal(t, StateNonEmpty, snap.State)
}

func TestSnapshotIsImmutable(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	snap := s.AddToCart(ctx, plov, bread)
	snap.Items[0].Quantity = 100
	snap.Items[0].AddOns[0].Price = 1

	got := s.Snapshot()
	require.Equal(t, 1, got.Items[0].Quantity)
	require.Equal(t, bread.Price, got.Items[0].AddOns[0].Price)
}

func TestStore_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	p := NewBlobPersister(mem, "session-1")

	s := NewStore(ctx, p, zap.NewNop())
	s.AddToCart(ctx, plov, bread)
	s.AddToCart(ctx, plov)
	s.AddToCart(ctx, samsa)
	before := s.Snapshot()

	restored := NewStore(ctx, NewBlobPersister(mem, "session-1"), zap.NewNop())
	require.Equal(t, before, restored.Snapshot())

	other := NewStore(ctx, NewBlobPersister(mem, "session-2"), zap.NewNop())
	require.True(t, other.Snapshot().IsEmpty())
}

func TestStore_UnreadableBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, DefaultKey, []byte(`{not json`)))

	s := NewStore(ctx, NewBlobPersister(mem, ""), zap.NewNop())
	require.True(t, s.Snapshot().IsEmpty())

	// the next mutation overwrites the broken blob
	s.AddToCart(ctx, plov)
	items, err := NewBlobPersister(mem, "").Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestStore_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	p := &failingPersister{loadErr: storage.ErrNotFound, saveErr: errors.New("quota exceeded")}

	s := NewStore(ctx, p, zap.New(core))
	snap := s.AddToCart(ctx, plov)
	snap = s.AddToCart(ctx, plov)

	require.Equal(t, 2, snap.Items[0].Quantity)
	require.Equal(t, 2, p.saves)
	require.Equal(t, 2, logs.FilterMessage("cart not persisted").Len())
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	s := NewStore(context.Background(), &failingPersister{loadErr: errors.New("storage unavailable")}, zap.NewNop())
	require.True(t, s.Snapshot().IsEmpty())
}

func TestStore_InMemoryOnly(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, nil)
	snap := s.AddToCart(ctx, plov)
	require.Len(t, snap.Items, 1)
}

func TestStore_PersistSurvivesCancelledContext(t *testing.T) {
	mem := storage.NewMemoryStore()
	p := NewBlobPersister(mem, "")
	s := NewStore(context.Background(), p, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.AddToCart(ctx, plov)

	items, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var got []State
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap.State)
	})

	s.AddToCart(ctx, plov)
	s.UpdateQuantity(ctx, 99, 3) // no-op, no event
	s.UpdateQuantity(ctx, plov.ID, 0)
	unsubscribe()
	s.AddToCart(ctx, samsa)

	require.Equal(t, []State{StateNonEmpty, StateEmpty}, got)
}
