// Package order turns a cart snapshot and the checkout form into the order
// payload sent to the commerce API.
package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingContact       = errors.New("full name and phone are required")
	ErrInvalidDeliveryType  = errors.New("invalid delivery type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Normalize trims the contact fields and fills in the PICKUP / CASH defaults.
func (f Form) Normalize() (Form, error) {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	if f.FullName == "" || f.Phone == "" {
		return f, ErrMissingContact
	}

	switch f.DeliveryType {
	case "":
		f.DeliveryType = DeliveryPickup
	case DeliveryPickup, DeliveryDelivery:
	default:
		return f, fmt.Errorf("%w: %q", ErrInvalidDeliveryType, f.DeliveryType)
	}

	switch f.PaymentMethod {
	case "":
		f.PaymentMethod = PaymentCash
	case PaymentCash, PaymentCard, PaymentOnline:
	default:
		return f, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, f.PaymentMethod)
	}
	return f, nil
}

// Build assembles the order request. It only reads snap; clearing the cart
// is up to the caller once the order has been accepted.
func Build(snap cart.Snapshot, form Form) (Request, error) {
	if snap.IsEmpty() {
		return Request{}, ErrEmptyCart
	}
	form, err := form.Normalize()
	if err != nil {
		return Request{}, err
	}

	products := make([]Product, 0, len(snap.Items))
	for _, it := range snap.Items {
		addOns := make([]catalog.AdditionProduct, len(it.AddOns))
		copy(addOns, it.AddOns)
		products = append(products, Product{
			ProductID:        it.ID,
			Name:             it.Name,
			Price:            it.Price,
			Count:            it.Quantity,
			AdditionProducts: addOns,
		})
	}

	var clientID *int64
	if form.ClientID != nil {
		id := *form.ClientID
		clientID = &id
	}

	return Request{
		ClientID:           clientID,
		Products:           products,
		TotalAmount:        snap.TotalPrice,
		PaymentStatus:      PaymentUnpaid,
		TotalPaymentAmount: snap.TotalPrice,
		OrderDeliveryType:  form.DeliveryType,
		PaymentMethod:      form.PaymentMethod,
		ClientInfo: ClientInfo{
			FullName: form.FullName,
			Phone:    form.Phone,
		},
	}, nil
}
