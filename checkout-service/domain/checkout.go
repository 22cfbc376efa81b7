package domain

import (
	"context"
	"errors"
	"time"

	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/models"
)

// ErrCheckoutNotFound is returned by repositories when no checkout matches
var ErrCheckoutNotFound = errors.New("checkout not found")

// Checkout aggregate root. It owns the payment step form state: the key
// of the selected payment method.
type Checkout struct {
	ID                   models.ID
	IsEmbedded           bool
	IsUsingMultiShipping bool
	PaymentProviderRadio string
	Timestamps           models.Timestamps
	Version              models.Version

	events []*events.Event
}

// CreateCheckout factory method
func CreateCheckout(isEmbedded, isUsingMultiShipping bool) *Checkout {
	checkout := &Checkout{
		ID:                   models.GenerateUUID(),
		IsEmbedded:           isEmbedded,
		IsUsingMultiShipping: isUsingMultiShipping,
		Timestamps:           models.NewTimestamps(),
		Version:              models.InitialVersion,
	}

	checkout.recordEvent(events.NewEvent(checkout.ID, events.CheckoutCreatedEvent, CheckoutCreatedData{
		CheckoutID:           checkout.ID,
		IsEmbedded:           isEmbedded,
		IsUsingMultiShipping: isUsingMultiShipping,
	}))

	return checkout
}

// SelectPaymentMethod stores method as the selected payment method. It
// returns false when method was already selected, in which case nothing
// changes and no event is recorded.
func (c *Checkout) SelectPaymentMethod(method *PaymentMethod) bool {
	value := method.Key().String()
	if value == c.PaymentProviderRadio {
		return false
	}

	c.PaymentProviderRadio = value
	c.Timestamps = c.Timestamps.Touch()
	c.Version = c.Version.Next()

	c.recordEvent(events.NewEvent(c.ID, events.CheckoutPaymentMethodSelectedEvent, PaymentMethodSelectedData{
		CheckoutID:           c.ID,
		PaymentProviderRadio: value,
		MethodID:             method.ID,
		Gateway:              method.Gateway,
		SelectedAt:           c.Timestamps.UpdatedAt,
	}))

	return true
}

// SelectedPaymentMethodKey returns the decoded key of the selection, if any
func (c *Checkout) SelectedPaymentMethodKey() (PaymentMethodKey, bool) {
	if c.PaymentProviderRadio == "" {
		return PaymentMethodKey{}, false
	}
	return ParsePaymentMethodKey(c.PaymentProviderRadio), true
}

// Events returns domain events
func (c *Checkout) Events() []*events.Event {
	return c.events
}

// ClearEvents clears domain events
func (c *Checkout) ClearEvents() {
	c.events = nil
}

func (c *Checkout) recordEvent(event *events.Event) {
	c.events = append(c.events, event)
}

// Event Data Structures
type CheckoutCreatedData struct {
	CheckoutID           models.ID `json:"checkout_id"`
	IsEmbedded           bool      `json:"is_embedded"`
	IsUsingMultiShipping bool      `json:"is_using_multi_shipping"`
}

type PaymentMethodSelectedData struct {
	CheckoutID           models.ID `json:"checkout_id"`
	PaymentProviderRadio string    `json:"payment_provider_radio"`
	MethodID             string    `json:"method_id"`
	Gateway              string    `json:"gateway,omitempty"`
	SelectedAt           time.Time `json:"selected_at"`
}

// CheckoutRepository interface
type CheckoutRepository interface {
	Save(ctx context.Context, checkout *Checkout) error
	// FindByID returns ErrCheckoutNotFound when no checkout matches
	FindByID(ctx context.Context, id models.ID) (*Checkout, error)
}
