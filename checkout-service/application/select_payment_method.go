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

// SelectPaymentMethodCommand represents the command to select a payment method
type SelectPaymentMethodCommand struct {
	CheckoutID           string `json:"-"`
	PaymentProviderRadio string `json:"payment_provider_radio"`
}

// SelectPaymentMethodResponse represents the response after selecting a payment method
type SelectPaymentMethodResponse struct {
	CheckoutID           string `json:"checkout_id"`
	PaymentProviderRadio string `json:"payment_provider_radio"`
	MethodID             string `json:"method_id"`
	Gateway              string `json:"gateway,omitempty"`
	Changed              bool   `json:"changed"`
}

// SelectPaymentMethod use case
type SelectPaymentMethod struct {
	checkoutRepository      domain.CheckoutRepository
	paymentMethodRepository domain.PaymentMethodRepository
	eventPublisher          events.Publisher
}

// NewSelectPaymentMethod creates a new SelectPaymentMethod use case
func NewSelectPaymentMethod(
	checkoutRepository domain.CheckoutRepository,
	paymentMethodRepository domain.PaymentMethodRepository,
	eventPublisher events.Publisher,
) *SelectPaymentMethod {
	return &SelectPaymentMethod{
		checkoutRepository:      checkoutRepository,
		paymentMethodRepository: paymentMethodRepository,
		eventPublisher:          eventPublisher,
	}
}

// Execute resolves the submitted value against a fresh render of the
// catalogue and stores it on the checkout. A value that matches no method
// returns a *domain.PaymentMethodResolutionError.
func (uc *SelectPaymentMethod) Execute(ctx context.Context, cmd *SelectPaymentMethodCommand) (*SelectPaymentMethodResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "select_payment_method",
		trace.WithAttributes(
			attribute.String("checkout_id", cmd.CheckoutID),
			attribute.String("payment_provider_radio", cmd.PaymentProviderRadio),
		),
	)
	defer span.End()

	checkout, err := findCheckout(ctx, uc.checkoutRepository, cmd.CheckoutID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	methods, err := uc.paymentMethodRepository.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to find payment methods")
	}

	var (
		selected *domain.PaymentMethod
		changed  bool
	)
	list := domain.RenderPaymentMethodList(methods, domain.PaymentMethodListOptions{
		SelectedKey: checkout.PaymentProviderRadio,
		OnSelect: func(method *domain.PaymentMethod) {
			selected = method
			changed = checkout.SelectPaymentMethod(method)
		},
	})

	if err := list.Select(cmd.PaymentProviderRadio); err != nil {
		span.RecordError(err)
		telemetry.RecordCounter(ctx, "payment_method_resolution_failures_total", "Submitted payment method values matching no method", 1)
		logging.FromContext(ctx).Warn("payment method not resolved",
			zap.String("checkout_id", checkout.ID.String()),
			zap.String("payment_provider_radio", cmd.PaymentProviderRadio),
			zap.Error(err),
		)
		return nil, err
	}

	if changed {
		if err := uc.checkoutRepository.Save(ctx, checkout); err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "failed to save checkout")
		}

		if err := uc.eventPublisher.Publish(ctx, checkout.Events()...); err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "failed to publish events")
		}
		checkout.ClearEvents()
	}

	telemetry.RecordCounter(ctx, "payment_method_selections_total", "Payment method selections", 1,
		attribute.String("method_id", selected.ID),
		attribute.String("gateway", selected.Gateway),
		attribute.Bool("changed", changed),
	)

	return &SelectPaymentMethodResponse{
		CheckoutID:           checkout.ID.String(),
		PaymentProviderRadio: checkout.PaymentProviderRadio,
		MethodID:             selected.ID,
		Gateway:              selected.Gateway,
		Changed:              changed,
	}, nil
}
