// Package kafka publishes domain events to a Kafka topic for downstream
// consumers (analytics, search indexing, partner feeds). Messages are keyed
// by order ID so one order's events stay in a single partition, in order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"

	"github.com/IBM/sarama"
)

// Event type discriminators on the wire.
const (
	eventTypeStatusChanged    = "order.status_changed"
	eventTypeRiderAssigned    = "order.rider_assigned"
	eventTypeRequestExhausted = "order.assignment_exhausted"
	eventTypeRiderArriving    = "order.rider_arriving"
)

// envelope is the wire format shared by all published events.
type envelope struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"orderId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type statusChangedPayload struct {
	CustomerID   string `json:"customerId"`
	RestaurantID string `json:"restaurantId"`
	From         string `json:"from"`
	To           string `json:"to"`
}

type riderAssignedPayload struct {
	RequestID string `json:"requestId"`
	RiderID   string `json:"riderId"`
}

type requestExhaustedPayload struct {
	RequestID string `json:"requestId"`
	Attempts  int    `json:"attempts"`
}

type riderArrivingPayload struct {
	RiderID   string  `json:"riderId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Publisher writes domain events to one Kafka topic via a synchronous
// producer. Send failures are logged and dropped: the order pipeline never
// stalls on the event feed.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher connects a synchronous producer to the given brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka_publisher"),
	}, nil
}

// PublishStatusChanged writes a committed status transition to the topic.
func (p *Publisher) PublishStatusChanged(_ context.Context, event order.StatusChanged) {
	p.send(eventTypeStatusChanged, event.OrderID.String(), event.OccurredAt, statusChangedPayload{
		CustomerID:   event.CustomerID.String(),
		RestaurantID: event.RestaurantID.String(),
		From:         event.From.String(),
		To:           event.To.String(),
	})
}

// PublishRiderAssigned writes an accepted offer to the topic.
func (p *Publisher) PublishRiderAssigned(_ context.Context, event assignment.RiderAssigned) {
	p.send(eventTypeRiderAssigned, event.OrderID.String(), event.OccurredAt, riderAssignedPayload{
		RequestID: event.RequestID.String(),
		RiderID:   event.RiderID.String(),
	})
}

// PublishRequestExhausted writes an exhausted matching request to the topic.
func (p *Publisher) PublishRequestExhausted(_ context.Context, event assignment.RequestExhausted) {
	p.send(eventTypeRequestExhausted, event.OrderID.String(), event.OccurredAt, requestExhaustedPayload{
		RequestID: event.RequestID.String(),
		Attempts:  event.Attempts,
	})
}

// PublishRiderLocationUpdated writes one arriving event per delivery the
// report moved inside the arriving radius. Raw movement stays off the topic:
// messages here are keyed by order, and downstream consumers only care about
// the arrival.
func (p *Publisher) PublishRiderLocationUpdated(_ context.Context, event rider.LocationUpdated) {
	for _, arriving := range event.Arriving {
		p.send(eventTypeRiderArriving, arriving.OrderID.String(), event.OccurredAt, riderArrivingPayload{
			RiderID:   event.RiderID.String(),
			Latitude:  event.Location.Latitude(),
			Longitude: event.Location.Longitude(),
		})
	}
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

func (p *Publisher) send(eventType, orderID string, occurredAt time.Time, payload any) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal event payload", "type", eventType, "error", err)
		return
	}

	raw, err := json.Marshal(envelope{
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: occurredAt,
		Payload:    rawPayload,
	})
	if err != nil {
		p.logger.Error("marshal event envelope", "type", eventType, "error", err)
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(orderID),
		Value: sarama.ByteEncoder(raw),
	})
	if err != nil {
		p.logger.Error("send event", "type", eventType, "orderId", orderID, "error", err)
	}
}
