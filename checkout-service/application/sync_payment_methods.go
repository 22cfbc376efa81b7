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

// PaymentMethodsUpdatedData is the payload of payment.methods.updated
type PaymentMethodsUpdatedData struct {
	Methods []*domain.PaymentMethod `json:"methods"`
}

// SyncPaymentMethods use case replaces the catalogue with the one carried by
// an upstream event
type SyncPaymentMethods struct {
	paymentMethodRepository domain.PaymentMethodRepository
}

// NewSyncPaymentMethods creates a new SyncPaymentMethods use case
func NewSyncPaymentMethods(paymentMethodRepository domain.PaymentMethodRepository) *SyncPaymentMethods {
	return &SyncPaymentMethods{
		paymentMethodRepository: paymentMethodRepository,
	}
}

// Execute decodes the event payload and stores the catalogue it carries
func (uc *SyncPaymentMethods) Execute(ctx context.Context, event *events.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "sync_payment_methods",
		trace.WithAttributes(attribute.String("event_id", event.ID.String())),
	)
	defer span.End()

	var data PaymentMethodsUpdatedData
	if err := event.UnmarshalPayload(&data); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to unmarshal payment methods")
	}

	if err := validateCatalogue(data.Methods); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "invalid payment methods")
	}

	if err := uc.paymentMethodRepository.ReplaceAll(ctx, data.Methods); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to replace payment methods")
	}

	span.SetAttributes(attribute.Int("payment_methods", len(data.Methods)))
	logging.FromContext(ctx).Info("payment methods synced",
		zap.String("event_id", event.ID.String()),
		zap.Int("payment_methods", len(data.Methods)),
	)

	return nil
}

func validateCatalogue(methods []*domain.PaymentMethod) error {
	for i, method := range methods {
		if method == nil {
			return errors.Errorf("payment method %d is null", i)
		}
		if method.ID == "" {
			return errors.Errorf("payment method %d has no id", i)
		}
	}
	return nil
}
