package application

import (
	"context"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/logging"
	"github.com/draftea/checkout-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ListPaymentMethodsQuery represents the query to render the payment step of a checkout
type ListPaymentMethodsQuery struct {
	CheckoutID string `json:"checkout_id"`
}

// ListPaymentMethodsResponse is the rendered method list
type ListPaymentMethodsResponse struct {
	CheckoutID    string                  `json:"checkout_id"`
	FieldName     string                  `json:"field_name"`
	SelectedValue string                  `json:"selected_value,omitempty"`
	Items         []PaymentMethodItemView `json:"items"`
}

// ListPaymentMethods use case
type ListPaymentMethods struct {
	checkoutRepository      domain.CheckoutRepository
	paymentMethodRepository domain.PaymentMethodRepository
}

// NewListPaymentMethods creates a new ListPaymentMethods use case
func NewListPaymentMethods(
	checkoutRepository domain.CheckoutRepository,
	paymentMethodRepository domain.PaymentMethodRepository,
) *ListPaymentMethods {
	return &ListPaymentMethods{
		checkoutRepository:      checkoutRepository,
		paymentMethodRepository: paymentMethodRepository,
	}
}

// Execute renders the catalogue for the checkout, pre-selecting its current selection
func (uc *ListPaymentMethods) Execute(ctx context.Context, query *ListPaymentMethodsQuery) (*ListPaymentMethodsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "list_payment_methods",
		trace.WithAttributes(attribute.String("checkout_id", query.CheckoutID)),
	)
	defer span.End()

	checkout, err := findCheckout(ctx, uc.checkoutRepository, query.CheckoutID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	methods, err := uc.paymentMethodRepository.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to find payment methods")
	}

	logger := logging.FromContext(ctx).With(zap.String("checkout_id", checkout.ID.String()))

	list := domain.RenderPaymentMethodList(methods, domain.PaymentMethodListOptions{
		SelectedKey:          checkout.PaymentProviderRadio,
		IsEmbedded:           checkout.IsEmbedded,
		IsUsingMultiShipping: checkout.IsUsingMultiShipping,
		OnUnhandledError: func(err error) {
			logger.Warn("payment method rendered with errors", zap.Error(err))
			telemetry.RecordCounter(ctx, "payment_method_render_errors_total", "Non-fatal payment method render errors", 1)
		},
	})

	response := &ListPaymentMethodsResponse{
		CheckoutID: checkout.ID.String(),
		FieldName:  domain.PaymentProviderRadioField,
		Items:      make([]PaymentMethodItemView, 0, list.Len()),
	}

	if item, ok := list.SelectedItem(); ok {
		response.SelectedValue = item.Value
	}

	for _, item := range list.Items() {
		response.Items = append(response.Items, RenderItem(item))
	}

	span.SetAttributes(attribute.Int("payment_methods", list.Len()))

	return response, nil
}
