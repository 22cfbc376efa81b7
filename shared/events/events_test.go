package events

import (
	"encoding/json"
	"testing"

	"github.com/draftea/checkout-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	CheckoutID string `json:"checkout_id"`
	Count      int    `json:"count"`
}

func TestNewEvent(t *testing.T) {
	aggregateID := models.ID("550e8400-e29b-41d4-a716-446655440020")

	event := NewEvent(aggregateID, CheckoutCreatedEvent, samplePayload{CheckoutID: "abc"})

	assert.False(t, event.ID.IsZero())
	assert.Equal(t, aggregateID, event.AggregateID)
	assert.Equal(t, Topic(CheckoutCreatedEvent), event.Topic)
	assert.Equal(t, CheckoutCreatedEvent, event.EventType)
	assert.Equal(t, "1.0", event.Version)
	assert.NotNil(t, event.Metadata)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewTopic(t *testing.T) {
	topic, err := NewTopic("checkout.created")
	require.NoError(t, err)
	assert.Equal(t, "checkout.created", topic.String())

	_, err = NewTopic("")
	assert.ErrorIs(t, err, ErrInvalidTopic)
}

func TestEvent_UnmarshalPayload(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
	}{
		{name: "typed struct", data: samplePayload{CheckoutID: "abc", Count: 2}},
		{name: "raw message", data: json.RawMessage(`{"checkout_id":"abc","count":2}`)},
		{name: "bytes", data: []byte(`{"checkout_id":"abc","count":2}`)},
		{name: "decoded map", data: map[string]interface{}{"checkout_id": "abc", "count": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &Event{Data: tt.data}

			var got samplePayload
			require.NoError(t, event.UnmarshalPayload(&got))
			assert.Equal(t, samplePayload{CheckoutID: "abc", Count: 2}, got)
		})
	}
}

func TestEvent_UnmarshalPayloadNilReceiver(t *testing.T) {
	event := &Event{Data: samplePayload{}}
	assert.ErrorIs(t, event.UnmarshalPayload(nil), ErrInvalidReceiver)
}

func TestEvent_WithMetadata(t *testing.T) {
	event := &Event{}
	event.WithMetadata("source", "test").WithCorrelationID(models.ID("corr"))

	value, ok := event.Metadata.Get("source")
	assert.True(t, ok)
	assert.Equal(t, "test", value)
	assert.Equal(t, models.ID("corr"), event.CorrelationID)

	clone := event.Metadata.Clone()
	clone.Set("source", "other")
	value, _ = event.Metadata.Get("source")
	assert.Equal(t, "test", value)
}
