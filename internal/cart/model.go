package cart

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

// MaxQuantity caps a single line. Together with catalog.MaxPrice it keeps
// totals from overflowing.
const MaxQuantity = 999

// LineItem is a product snapshot taken when it was first added, plus the
// quantity and the add-ons chosen at that moment.
type LineItem struct {
	catalog.Product
	Quantity int                       `json:"quantity"`
	AddOns   []catalog.AdditionProduct `json:"additionProducts,omitempty"`
}

// Subtotal is Price x Quantity; add-ons are not included.
func (it LineItem) Subtotal() int64 {
	return it.Price * int64(it.Quantity)
}

func (it LineItem) AddOnsTotal() int64 {
	var total int64
	for _, a := range it.AddOns {
		total += a.Total()
	}
	return total
}

type State string

const (
	StateEmpty    State = "empty"
	StateNonEmpty State = "non_empty"
)

// Snapshot is an immutable view of the cart. TotalPrice is the sum of
// price x quantity over all items and never includes add-on cost, which is
// reported on its own in AddOnsTotal.
type Snapshot struct {
	Items       []LineItem `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalPrice  int64      `json:"totalPrice"`
	AddOnsTotal int64      `json:"addOnsTotal"`
	State       State      `json:"state"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func newSnapshot(items []LineItem) Snapshot {
	s := Snapshot{Items: cloneItems(items), State: StateEmpty}
	for _, it := range s.Items {
		s.TotalItems += it.Quantity
		s.TotalPrice += it.Subtotal()
		s.AddOnsTotal += it.AddOnsTotal()
	}
	if len(s.Items) > 0 {
		s.State = StateNonEmpty
	}
	return s
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it
		if it.AddOns != nil {
			out[i].AddOns = append([]catalog.AdditionProduct(nil), it.AddOns...)
		}
		if it.Files != nil {
			out[i].Files = append([]catalog.File(nil), it.Files...)
		}
		if it.Additions != nil {
			out[i].Additions = append([]catalog.Addition(nil), it.Additions...)
		}
	}
	return out
}
