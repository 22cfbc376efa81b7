package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSQS struct {
	mu         sync.Mutex
	pending    []types.Message
	deleted    []string
	extended   map[string]int32
	receiveErr error
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}

	messages := f.pending
	f.pending = nil
	return &sqs.ReceiveMessageOutput{Messages: messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(_ context.Context, params *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.extended == nil {
		f.extended = make(map[string]int32)
	}
	f.extended[aws.ToString(params.ReceiptHandle)] = params.VisibilityTimeout
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func (f *fakeSQS) snapshot() ([]string, map[string]int32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	extended := make(map[string]int32, len(f.extended))
	for k, v := range f.extended {
		extended[k] = v
	}
	return append([]string(nil), f.deleted...), extended
}

type recordingHandler struct {
	mu     sync.Mutex
	seen   []*events.Event
	failOn string
}

func (h *recordingHandler) HandlerID() string { return "recording-handler" }

func (h *recordingHandler) Handle(_ context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seen = append(h.seen, event)
	if receipt, _ := event.Metadata.Get(SQSReceiptHandleKey); receipt == h.failOn {
		return errors.New("handler failed")
	}
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func newSQSMessage(t *testing.T, receipt string, receiveCount string) types.Message {
	t.Helper()

	event := events.NewEvent(models.GenerateUUID(), events.PaymentMethodsUpdatedEvent, map[string]string{"receipt": receipt})
	body, err := encodeEnvelope(event)
	require.NoError(t, err)

	return types.Message{
		MessageId:     aws.String("msg-" + receipt),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": receiveCount},
		MessageAttributes: map[string]types.MessageAttributeValue{
			"topic": {DataType: aws.String("String"), StringValue: aws.String(events.PaymentMethodsUpdatedEvent)},
		},
	}
}

func TestSQSEventSubscriber_HandlesAndSettlesMessages(t *testing.T) {
	client := &fakeSQS{
		pending: []types.Message{
			newSQSMessage(t, "ok", "1"),
			newSQSMessage(t, "boom", "4"),
			{MessageId: aws.String("garbage"), ReceiptHandle: aws.String("garbage"), Body: aws.String("{")},
		},
	}
	handler := &recordingHandler{failOn: "boom"}

	subscriber := NewSQSEventSubscriber(client, "http://localhost:4566/000000000000/checkout", zap.NewNop(),
		WithWorkers(2),
		WithSleepAfterEmptyReceive(10*time.Millisecond),
	)

	require.NoError(t, subscriber.Subscribe(context.Background(), handler))
	assert.Error(t, subscriber.Subscribe(context.Background(), handler))

	assert.Eventually(t, func() bool {
		deleted, extended := client.snapshot()
		return len(deleted) == 1 && len(extended) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, subscriber.Close())
	require.NoError(t, subscriber.Close())

	deleted, extended := client.snapshot()
	assert.Equal(t, []string{"ok"}, deleted)
	// 30s base plus one 30s offset after 3 receives
	assert.Equal(t, int32(60), extended["boom"])
	assert.Equal(t, 2, handler.count())

	for _, event := range handler.seen {
		assert.Equal(t, events.PaymentMethodsUpdatedEvent, event.EventType)
		messageID, ok := event.Metadata.Get(SQSMessageIDKey)
		assert.True(t, ok)
		assert.NotEmpty(t, messageID)
	}
}

func TestSQSEventSubscriber_RequiresHandler(t *testing.T) {
	subscriber := NewSQSEventSubscriber(&fakeSQS{}, "queue", nil)
	assert.Error(t, subscriber.Subscribe(context.Background(), nil))
}

func TestSQSEventSubscriber_BackoffVisibilityTimeout(t *testing.T) {
	subscriber := NewSQSEventSubscriber(&fakeSQS{}, "queue", nil)

	tests := []struct {
		receiveCount string
		want         int32
	}{
		{receiveCount: "", want: 30},
		{receiveCount: "2", want: 30},
		{receiveCount: "3", want: 60},
		{receiveCount: "9", want: 120},
		{receiveCount: "1000", want: 900},
	}

	for _, tt := range tests {
		message := types.Message{Attributes: map[string]string{"ApproximateReceiveCount": tt.receiveCount}}
		assert.Equal(t, tt.want, subscriber.backoffVisibilityTimeout(message), "receive count %q", tt.receiveCount)
	}
}
