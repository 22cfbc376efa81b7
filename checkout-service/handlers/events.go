package handlers

import (
	"context"

	"github.com/draftea/checkout-system/checkout-service/application"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/logging"
	"go.uber.org/zap"
)

// CheckoutEventHandlers contains event handlers for the checkout service
type CheckoutEventHandlers struct {
	syncPaymentMethods *application.SyncPaymentMethods
}

// NewCheckoutEventHandlers creates new checkout event handlers
func NewCheckoutEventHandlers(syncPaymentMethods *application.SyncPaymentMethods) *CheckoutEventHandlers {
	return &CheckoutEventHandlers{
		syncPaymentMethods: syncPaymentMethods,
	}
}

// Handle implements the events.EventHandler interface
func (h *CheckoutEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.PaymentMethodsUpdatedEvent:
		return h.HandlePaymentMethodsUpdated(ctx, event)
	default:
		// Unknown event type, ignore
		logging.FromContext(ctx).Debug("ignoring event",
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", event.EventType),
		)
		return nil
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *CheckoutEventHandlers) HandlerID() string {
	return "checkout-service-event-handler"
}

// HandlePaymentMethodsUpdated replaces the payment method catalogue
func (h *CheckoutEventHandlers) HandlePaymentMethodsUpdated(ctx context.Context, event *events.Event) error {
	return h.syncPaymentMethods.Execute(ctx, event)
}
