package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/draftea/checkout-system/shared/models"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidReceiver = errors.New("receiver should be a non-nil pointer")
)

// Topic is the routing key of an event, e.g. "checkout.created"
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Metadata represents event metadata
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	m[key] = value
}

func (m Metadata) Clone() Metadata {
	clone := make(Metadata, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event represents a domain event
type Event struct {
	ID            models.ID   `json:"id"`
	AggregateID   models.ID   `json:"aggregate_id"`
	Topic         Topic       `json:"topic"`
	EventType     string      `json:"event_type"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
	CorrelationID models.ID   `json:"correlation_id,omitempty"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, evts ...*Event) error
}

// Subscriber subscribes to events
type Subscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	HandlerID() string
	Handle(ctx context.Context, event *Event) error
}

// NewEvent creates a new domain event
func NewEvent(aggregateID models.ID, eventType string, data interface{}) *Event {
	return &Event{
		ID:          models.GenerateUUID(),
		AggregateID: aggregateID,
		Topic:       Topic(eventType),
		EventType:   eventType,
		Version:     "1.0",
		Data:        data,
		Metadata:    make(Metadata),
		Timestamp:   time.Now().UTC(),
	}
}

// WithCorrelationID sets correlation ID
func (e *Event) WithCorrelationID(correlationID models.ID) *Event {
	e.CorrelationID = correlationID
	return e
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	switch data := e.Data.(type) {
	case json.RawMessage:
		return data, nil
	case []byte:
		return data, nil
	default:
		return json.Marshal(e.Data)
	}
}

// UnmarshalPayload decodes the event payload into v. Payloads that arrived
// over the wire are raw JSON; locally built events are round-tripped.
func (e *Event) UnmarshalPayload(v interface{}) error {
	if v == nil {
		return ErrInvalidReceiver
	}

	raw, err := e.MarshalPayload()
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

// Event Types Constants
const (
	// Checkout Events
	CheckoutCreatedEvent               = "checkout.created"
	CheckoutPaymentMethodSelectedEvent = "checkout.payment_method.selected"

	// Payment Method Catalogue Events
	PaymentMethodsUpdatedEvent = "payment.methods.updated"
)
