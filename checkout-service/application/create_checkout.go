package application

import (
	"context"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/logging"
	"github.com/draftea/checkout-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CreateCheckoutCommand represents the command to create a checkout
type CreateCheckoutCommand struct {
	IsEmbedded           bool `json:"is_embedded"`
	IsUsingMultiShipping bool `json:"is_using_multi_shipping"`
}

// CreateCheckoutResponse represents the response after creating a checkout
type CreateCheckoutResponse struct {
	CheckoutID string `json:"checkout_id"`
}

// CreateCheckout use case
type CreateCheckout struct {
	checkoutRepository domain.CheckoutRepository
	eventPublisher     events.Publisher
}

// NewCreateCheckout creates a new CreateCheckout use case
func NewCreateCheckout(
	checkoutRepository domain.CheckoutRepository,
	eventPublisher events.Publisher,
) *CreateCheckout {
	return &CreateCheckout{
		checkoutRepository: checkoutRepository,
		eventPublisher:     eventPublisher,
	}
}

// Execute creates the checkout and publishes checkout.created
func (uc *CreateCheckout) Execute(ctx context.Context, cmd *CreateCheckoutCommand) (*CreateCheckoutResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "create_checkout",
		trace.WithAttributes(
			attribute.Bool("is_embedded", cmd.IsEmbedded),
			attribute.Bool("is_using_multi_shipping", cmd.IsUsingMultiShipping),
		),
	)
	defer span.End()

	checkout := domain.CreateCheckout(cmd.IsEmbedded, cmd.IsUsingMultiShipping)
	span.SetAttributes(attribute.String("checkout_id", checkout.ID.String()))

	if err := uc.checkoutRepository.Save(ctx, checkout); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to save checkout")
	}

	if err := uc.eventPublisher.Publish(ctx, checkout.Events()...); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to publish events")
	}
	checkout.ClearEvents()

	logging.FromContext(ctx).Info("checkout created", zap.String("checkout_id", checkout.ID.String()))

	return &CreateCheckoutResponse{
		CheckoutID: checkout.ID.String(),
	}, nil
}
