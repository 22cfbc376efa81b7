package infrastructure

import (
	"encoding/json"
	"time"

	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/models"
	"github.com/pkg/errors"
)

// envelope is the JSON body written to SNS and read back from SQS with raw
// message delivery enabled on the subscription.
type envelope struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	Topic         string          `json:"topic"`
	Version       string          `json:"version"`
	Metadata      events.Metadata `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

func encodeEnvelope(event *events.Event) ([]byte, error) {
	payload, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	body, err := json.Marshal(&envelope{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		Topic:         event.Topic.String(),
		Version:       event.Version,
		Metadata:      event.Metadata,
		Payload:       payload,
		Timestamp:     event.Timestamp,
		CorrelationID: event.CorrelationID.String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message")
	}

	return body, nil
}

func decodeEnvelope(body []byte) (*events.Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal message")
	}

	if env.Topic == "" {
		return nil, events.ErrInvalidTopic
	}

	metadata := env.Metadata
	if metadata == nil {
		metadata = make(events.Metadata)
	}

	return &events.Event{
		ID:            models.ID(env.ID),
		AggregateID:   models.ID(env.AggregateID),
		Topic:         events.Topic(env.Topic),
		EventType:     env.Topic,
		Version:       env.Version,
		Data:          env.Payload,
		Metadata:      metadata,
		Timestamp:     env.Timestamp,
		CorrelationID: models.ID(env.CorrelationID),
	}, nil
}
