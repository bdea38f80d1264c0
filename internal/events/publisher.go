// Package events publishes storefront domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const publishTimeout = 3 * time.Second

// PublishMetadata ties an event to the request that caused it.
type PublishMetadata struct {
	CorrelationID string
	CausationID   string
	PartitionKey  string
}

type RabbitPublisher struct {
	ch       channel
	seq      SequenceRepository
	producer string
	logger   *zap.Logger
}

type PublisherOptions struct {
	Producer string
	Logger   *zap.Logger
}

func NewRabbitPublisher(conn *amqp.Connection, seq SequenceRepository, opts PublisherOptions) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, seq, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel, seq SequenceRepository, opts PublisherOptions) (*RabbitPublisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = contracts.StorefrontProducer
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RabbitPublisher{ch: ch, seq: seq, producer: producer, logger: logger}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced announces an order the commerce API has accepted.
func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, meta PublishMetadata, req order.Request, resp order.Response) error {
	seq, err := p.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := contracts.BuildOrderPlacedEvent(req, resp, contracts.EnvelopeOptions{
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		Producer:      p.producer,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
	})

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	if err := p.publishJSON(ctx, OrderPlacedRoutingKey, env.EventID, body); err != nil {
		return fmt.Errorf("publish OrderPlaced: %w", err)
	}

	p.logger.Info("published event",
		zap.String("event", env.EventName),
		zap.String("event_id", env.EventID),
		zap.Int64("order_id", resp.ID),
		zap.Int64("sequence", seq),
	)
	return nil
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
