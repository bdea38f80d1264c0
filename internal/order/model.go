package order

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "PICKUP"
	DeliveryDelivery DeliveryType = "DELIVERY"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentOnline PaymentMethod = "ONLINE"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Product is one line of the order. AdditionProducts is always sent, as an
// empty array when the line has no add-ons.
type Product struct {
	ProductID        int64                     `json:"productId"`
	Name             string                    `json:"name"`
	Price            int64                     `json:"price"`
	Count            int                       `json:"count"`
	AdditionProducts []catalog.AdditionProduct `json:"additionProducts"`
}

type ClientInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Request is the payload accepted by POST /pos/order.
type Request struct {
	ClientID           *int64        `json:"clientId,omitempty"`
	Products           []Product     `json:"products"`
	TotalAmount        int64         `json:"totalAmount"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	TotalPaymentAmount int64         `json:"totalPaymentAmount"`
	OrderDeliveryType  DeliveryType  `json:"orderDeliveryType"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	ClientInfo         ClientInfo    `json:"clientInfo"`
}

type Response struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Form carries what the customer typed at checkout.
type Form struct {
	ClientID      *int64        `json:"clientId,omitempty"`
	FullName      string        `json:"fullName"`
	Phone         string        `json:"phone"`
	DeliveryType  DeliveryType  `json:"orderDeliveryType,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}
