package domain

// Well known payment method ids
const (
	PaymentMethodIDAdyenV3                           = "adyenv3"
	PaymentMethodIDAmazonPay                         = "amazonpay"
	PaymentMethodIDApplePay                          = "applepay"
	PaymentMethodIDBraintree                         = "braintree"
	PaymentMethodIDBraintreeVenmo                    = "braintreevenmo"
	PaymentMethodIDCheckoutcom                       = "checkoutcom"
	PaymentMethodIDGooglePay                         = "googlepay"
	PaymentMethodIDKlarna                            = "klarna"
	PaymentMethodIDPayPal                            = "paypal"
	PaymentMethodIDPayPalCommerce                    = "paypalcommerce"
	PaymentMethodIDPayPalCommerceCreditCards         = "paypalcommercecreditcards"
	PaymentMethodIDPayPalCommerceAcceleratedCheckout = "paypalcommerceacceleratedcheckout"
	PaymentMethodIDSquareV2                          = "squarev2"
	PaymentMethodIDStripeV3                          = "stripev3"
)

// IsPayPalCommerceConnectMethod reports whether the method takes part in the
// PayPal Commerce accelerated checkout (Connect) flow.
func IsPayPalCommerceConnectMethod(methodID string) bool {
	return isPayPalCommerceCreditCardsConnectExperiment(methodID) ||
		methodID == PaymentMethodIDPayPalCommerceAcceleratedCheckout
}

// isPayPalCommerceCreditCardsConnectExperiment matches the credit cards
// method enrolled in the Connect A/B test.
func isPayPalCommerceCreditCardsConnectExperiment(methodID string) bool {
	return methodID == PaymentMethodIDPayPalCommerceCreditCards
}
