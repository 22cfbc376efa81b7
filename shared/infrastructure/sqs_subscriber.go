package infrastructure

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	SQSMessageIDKey     = "sqs_message_id"
	SQSReceiptHandleKey = "sqs_receipt_handle"
)

var _ events.Subscriber = (*SQSEventSubscriber)(nil)

// SQSAPI is the subset of the SQS client used by the subscriber
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

type sqsMessage struct {
	Message types.Message
	Event   *events.Event
	Err     error
}

type sqsSubscriberOptions struct {
	workers                        int
	readers                        int
	cleaners                       int
	maxNumberOfMessages            int32
	waitTimeSeconds                int32
	visibilityTimeout              int32
	sleepTimeAfterEmptyReceive     time.Duration
	sleepTimeAfterError            time.Duration
	extendVisibilityTimeoutOnError bool
	receiveCountRange              int32
	visibilityTimeoutOffset        int32
	maxVisibilityTimeout           int32
}

type SQSSubscriberOption func(*sqsSubscriberOptions)

func WithWorkers(workers int) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

func WithVisibilityTimeout(timeout int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.visibilityTimeout = timeout
	}
}

func WithWaitTimeSeconds(seconds int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.waitTimeSeconds = seconds
	}
}

func WithSleepAfterEmptyReceive(d time.Duration) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.sleepTimeAfterEmptyReceive = d
	}
}

// SQSEventSubscriber reads events from an SQS queue and hands them to a
// single handler. Readers, workers and cleaners run as separate goroutines
// connected by channels; a message is deleted only after it was handled
// without error, otherwise its visibility timeout is extended.
type SQSEventSubscriber struct {
	client   SQSAPI
	queueURL string
	options  sqsSubscriberOptions
	logger   *zap.Logger

	mux     sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewSQSEventSubscriber creates a new SQS event subscriber
func NewSQSEventSubscriber(client SQSAPI, queueURL string, logger *zap.Logger, opts ...SQSSubscriberOption) *SQSEventSubscriber {
	options := sqsSubscriberOptions{
		workers:                        10,
		readers:                        1,
		cleaners:                       2,
		maxNumberOfMessages:            5,
		waitTimeSeconds:                15,
		visibilityTimeout:              30,
		sleepTimeAfterEmptyReceive:     10 * time.Second,
		sleepTimeAfterError:            20 * time.Second,
		extendVisibilityTimeoutOnError: true,
		receiveCountRange:              3,
		visibilityTimeoutOffset:        30,
		maxVisibilityTimeout:           900,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.workers < 1 {
		options.workers = 1
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &SQSEventSubscriber{
		client:   client,
		queueURL: queueURL,
		options:  options,
		logger:   logger.With(zap.String("queue_url", queueURL)),
	}
}

// NewSQSEventSubscriberFromConfig builds the SQS client from an AWS config,
// honouring the SQS endpoint override.
func NewSQSEventSubscriberFromConfig(cfg aws.Config, opts AWSOptions, queueURL string, logger *zap.Logger, subscriberOpts ...SQSSubscriberOption) *SQSEventSubscriber {
	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if opts.EndpointSQS != "" {
			o.BaseEndpoint = aws.String(opts.EndpointSQS)
		}
	})
	return NewSQSEventSubscriber(client, queueURL, logger, subscriberOpts...)
}

// Subscribe starts consuming the queue in the background until ctx is done
// or Close is called.
func (s *SQSEventSubscriber) Subscribe(ctx context.Context, handler events.EventHandler) error {
	if handler == nil {
		return errors.New("event handler is required")
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.running.Load() {
		return errors.New("subscriber is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	inbound := make(chan *sqsMessage, s.options.workers)
	outbound := make(chan *sqsMessage, s.options.workers)
	logger := s.logger.With(zap.String("handler_id", handler.HandlerID()))

	s.spawn(s.options.readers, func() { s.startReader(ctx, inbound, logger) })
	s.spawn(s.options.workers, func() { s.startWorker(ctx, handler, inbound, outbound) })
	s.spawn(s.options.cleaners, func() { s.startCleaner(ctx, outbound, logger) })

	s.running.Store(true)
	logger.Info("sqs subscriber started")

	return nil
}

// Close stops all goroutines and waits for them to exit
func (s *SQSEventSubscriber) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if !s.running.Load() {
		return nil
	}

	s.cancel()
	s.wg.Wait()

	s.cancel = nil
	s.running.Store(false)
	s.logger.Info("sqs subscriber stopped")

	return nil
}

func (s *SQSEventSubscriber) spawn(n int, fn func()) {
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			fn()
		}()
	}
}

func (s *SQSEventSubscriber) startReader(ctx context.Context, inbound chan<- *sqsMessage, logger *zap.Logger) {
	for ctx.Err() == nil {
		received, err := s.read(ctx, inbound, logger)
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Error("failed to read from sqs", zap.Error(err))
			sleep(ctx, s.options.sleepTimeAfterError)
		case err == nil && received == 0:
			sleep(ctx, s.options.sleepTimeAfterEmptyReceive)
		}
	}
}

func (s *SQSEventSubscriber) startWorker(ctx context.Context, handler events.EventHandler, inbound <-chan *sqsMessage, outbound chan<- *sqsMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-inbound:
			message.Err = handler.Handle(ctx, message.Event)
			select {
			case outbound <- message:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *SQSEventSubscriber) startCleaner(ctx context.Context, outbound <-chan *sqsMessage, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-outbound:
			if err := s.clean(ctx, message, logger); err != nil {
				logger.Error("failed to settle sqs message",
					zap.String("message_id", aws.ToString(message.Message.MessageId)),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *SQSEventSubscriber) read(ctx context.Context, inbound chan<- *sqsMessage, logger *zap.Logger) (int, error) {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: s.options.maxNumberOfMessages,
		WaitTimeSeconds:     s.options.waitTimeSeconds,
		VisibilityTimeout:   s.options.visibilityTimeout,
		AttributeNames: []types.QueueAttributeName{
			"ApproximateReceiveCount",
			"ApproximateFirstReceiveTimestamp",
		},
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to receive message from SQS")
	}

	for _, message := range output.Messages {
		event, err := decodeEnvelope([]byte(aws.ToString(message.Body)))
		if err != nil {
			// Left on the queue; redrive policy moves it to the DLQ
			logger.Warn("skipping malformed sqs message",
				zap.String("message_id", aws.ToString(message.MessageId)),
				zap.Error(err),
			)
			continue
		}

		event.Metadata.Set(SQSMessageIDKey, aws.ToString(message.MessageId))
		if message.ReceiptHandle != nil {
			event.Metadata.Set(SQSReceiptHandleKey, *message.ReceiptHandle)
		}
		for k, v := range message.MessageAttributes {
			if v.StringValue != nil {
				event.Metadata.Set(k, *v.StringValue)
			}
		}

		select {
		case inbound <- &sqsMessage{Message: message, Event: event}:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	return len(output.Messages), nil
}

func (s *SQSEventSubscriber) clean(ctx context.Context, message *sqsMessage, logger *zap.Logger) error {
	if message.Err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", message.Event.EventType),
			zap.String("event_id", message.Event.ID.String()),
			zap.Error(message.Err),
		)

		if !s.options.extendVisibilityTimeoutOnError {
			return nil
		}

		_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
			QueueUrl:          aws.String(s.queueURL),
			ReceiptHandle:     message.Message.ReceiptHandle,
			VisibilityTimeout: s.backoffVisibilityTimeout(message.Message),
		})
		if err != nil {
			return errors.Wrap(err, "failed to extend visibility timeout")
		}
		return nil
	}

	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: message.Message.ReceiptHandle,
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete message from SQS")
	}

	return nil
}

// backoffVisibilityTimeout grows the timeout by one offset every
// receiveCountRange receives, capped at maxVisibilityTimeout.
func (s *SQSEventSubscriber) backoffVisibilityTimeout(message types.Message) int32 {
	receiveCount, err := strconv.Atoi(message.Attributes["ApproximateReceiveCount"])
	if err != nil {
		receiveCount = 1
	}

	timeout := s.options.visibilityTimeout
	timeout += (int32(receiveCount) / s.options.receiveCountRange) * s.options.visibilityTimeoutOffset

	if timeout > s.options.maxVisibilityTimeout {
		timeout = s.options.maxVisibilityTimeout
	}
	return timeout
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
