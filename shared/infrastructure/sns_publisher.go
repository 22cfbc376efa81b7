package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var _ events.Publisher = (*SNSEventPublisher)(nil)

// SNS caps PublishBatch at 10 entries
const maxBatchSize = 10

// SNSAPI is the subset of the SNS client used by the publisher
type SNSAPI interface {
	PublishBatch(ctx context.Context, params *sns.PublishBatchInput, optFns ...func(*sns.Options)) (*sns.PublishBatchOutput, error)
}

// SNSEventPublisher implements events.Publisher using AWS SNS
type SNSEventPublisher struct {
	client   SNSAPI
	topicArn string
}

// NewSNSEventPublisher creates a new SNSEventPublisher
func NewSNSEventPublisher(client SNSAPI, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{
		client:   client,
		topicArn: topicArn,
	}
}

// NewSNSEventPublisherFromConfig builds the SNS client from an AWS config,
// honouring the SNS endpoint override.
func NewSNSEventPublisherFromConfig(cfg aws.Config, opts AWSOptions, topicArn string) *SNSEventPublisher {
	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if opts.EndpointSNS != "" {
			o.BaseEndpoint = aws.String(opts.EndpointSNS)
		}
	})
	return NewSNSEventPublisher(client, topicArn)
}

// Publish publishes events to SNS in parallel batches
func (p *SNSEventPublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	gr, ctx := errgroup.WithContext(ctx)

	for _, batch := range splitToChunks(evts, maxBatchSize) {
		batch := batch
		gr.Go(func() error {
			return p.batchPublish(ctx, batch)
		})
	}

	return gr.Wait()
}

func (p *SNSEventPublisher) batchPublish(ctx context.Context, batch []*events.Event) error {
	entries := make([]types.PublishBatchRequestEntry, len(batch))

	for i, event := range batch {
		body, err := encodeEnvelope(event)
		if err != nil {
			return err
		}

		attrs := map[string]types.MessageAttributeValue{
			"topic": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Topic.String()),
			},
		}

		for k, v := range event.Metadata {
			if k == SQSMessageIDKey || k == SQSReceiptHandleKey {
				continue
			}
			attrs[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}

		entries[i] = types.PublishBatchRequestEntry{
			Id:                aws.String(event.ID.String()),
			Message:           aws.String(string(body)),
			MessageAttributes: attrs,
		}
	}

	res, err := p.client.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   aws.String(p.topicArn),
		PublishBatchRequestEntries: entries,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish batch to SNS")
	}

	if len(res.Failed) > 0 {
		first := res.Failed[0]
		return errors.Errorf("failed to publish %d of %d events to SNS: %s",
			len(res.Failed), len(batch), aws.ToString(first.Message))
	}

	return nil
}

// Close releases publisher resources; the SNS client holds none
func (p *SNSEventPublisher) Close() error {
	return nil
}

// splitToChunks splits slice into chunks of specified size
func splitToChunks[T any](slice []T, chunkSize int) [][]T {
	var chunks [][]T
	for i := 0; i < len(slice); i += chunkSize {
		end := i + chunkSize
		if end > len(slice) {
			end = len(slice)
		}
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}
