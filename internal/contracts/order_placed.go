package contracts

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	OrderPlacedEventName           = "OrderPlaced"
	OrderPlacedEventVersion        = 1
	OrderPlacedEnvelopedSchemaPath = "contracts/events/storefront/OrderPlaced.v1.enveloped.schema.json"
	StorefrontProducer             = "storefront"
)

type EventEnvelope struct {
	EventName     string             `json:"eventName"`
	EventVersion  int                `json:"eventVersion"`
	EventID       string             `json:"eventId"`
	CorrelationID string             `json:"correlationId,omitempty"`
	CausationID   string             `json:"causationId,omitempty"`
	Producer      string             `json:"producer"`
	PartitionKey  string             `json:"partitionKey"`
	Sequence      int64              `json:"sequence"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Schema        string             `json:"schema"`
	Payload       OrderPlacedPayload `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID            int64               `json:"orderId"`
	Status             string              `json:"status"`
	ClientID           *int64              `json:"clientId,omitempty"`
	Items              []OrderPlacedItem   `json:"items"`
	TotalAmount        int64               `json:"totalAmount"`
	TotalPaymentAmount int64               `json:"totalPaymentAmount"`
	DeliveryType       order.DeliveryType  `json:"orderDeliveryType"`
	PaymentMethod      order.PaymentMethod `json:"paymentMethod"`
	PaymentStatus      order.PaymentStatus `json:"paymentStatus"`
	ClientInfo         order.ClientInfo    `json:"clientInfo"`
	Timestamp          time.Time           `json:"timestamp"`
}

type OrderPlacedItem struct {
	ProductID   int64  `json:"productId"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	AddOnsTotal int64  `json:"addOnsTotal"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildOrderPlacedEvent wraps an accepted order in the versioned envelope.
// Zero-valued options fall back to a fresh event id, the current time, the
// storefront producer and the v1 schema path.
func BuildOrderPlacedEvent(req order.Request, resp order.Response, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = OrderPlacedEnvelopedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}

	payload := OrderPlacedPayload{
		OrderID:            resp.ID,
		Status:             resp.Status,
		ClientID:           req.ClientID,
		Items:              make([]OrderPlacedItem, 0, len(req.Products)),
		TotalAmount:        req.TotalAmount,
		TotalPaymentAmount: req.TotalPaymentAmount,
		DeliveryType:       req.OrderDeliveryType,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      req.PaymentStatus,
		ClientInfo:         req.ClientInfo,
		Timestamp:          occurredAt,
	}

	for _, p := range req.Products {
		var addOns int64
		for _, a := range p.AdditionProducts {
			addOns += a.Total()
		}
		payload.Items = append(payload.Items, OrderPlacedItem{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Quantity:    p.Count,
			Price:       p.Price,
			AddOnsTotal: addOns,
		})
	}

	return EventEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  opts.PartitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       payload,
	}
}
