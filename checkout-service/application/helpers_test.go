package application

import (
	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/models"
)

const unknownCheckoutID = "550e8400-e29b-41d4-a716-446655440000"

func newTestCheckout(selected *domain.PaymentMethod) *domain.Checkout {
	checkout := domain.CreateCheckout(false, false)
	if selected != nil {
		checkout.SelectPaymentMethod(selected)
	}
	checkout.ClearEvents()
	return checkout
}

func catalogue() []*domain.PaymentMethod {
	return []*domain.PaymentMethod{
		{ID: domain.PaymentMethodIDPayPal, Gateway: domain.PaymentMethodIDPayPalCommerce, Method: "paypal", Type: domain.PaymentMethodTypeAPI},
		{ID: domain.PaymentMethodIDPayPal, Gateway: domain.PaymentMethodIDBraintree, Method: "paypal", Type: domain.PaymentMethodTypeAPI},
		{ID: domain.PaymentMethodIDPayPalCommerceAcceleratedCheckout, Method: "credit-card", Type: domain.PaymentMethodTypeAPI},
		{ID: "cod", Method: "offline", Type: domain.PaymentMethodTypeOffline, Config: domain.PaymentMethodConfig{DisplayName: "Cash on delivery"}},
	}
}

func unknownID() models.ID {
	return models.ID(unknownCheckoutID)
}
