package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodKey_String(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		gateway string
		want    string
	}{
		{name: "id only", id: "braintree", want: "braintree"},
		{name: "id with gateway", id: "paypal", gateway: "paypalcommerce", want: "paypalcommerce-paypal"},
		{name: "id containing delimiter", id: "credit-card", gateway: "adyenv3", want: "adyenv3-credit~-card"},
		{name: "gateway containing delimiter", id: "card", gateway: "stripe-v3", want: "stripe~-v3-card"},
		{name: "escape character", id: "a~b", want: "a~~b"},
		{name: "empty id with gateway", id: "", gateway: "braintree", want: "braintree-"},
		{name: "empty", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaymentMethodKey(tt.id, tt.gateway).String())
			assert.Equal(t, tt.want, UniquePaymentMethodID(tt.id, tt.gateway))
		})
	}
}

func TestParsePaymentMethodKey_RoundTrip(t *testing.T) {
	pairs := []PaymentMethodKey{
		{ID: "braintree"},
		{ID: "paypal", Gateway: "paypalcommerce"},
		{ID: "paypal", Gateway: "braintree"},
		{ID: "credit-card", Gateway: "adyenv3"},
		{ID: "card", Gateway: "stripe-v3"},
		{ID: "-", Gateway: "-"},
		{ID: "~", Gateway: "~-~"},
		{ID: "ends-with-escape~"},
		{ID: "", Gateway: "braintree"},
		{ID: "klarna-"},
		{ID: "unicode-ñ", Gateway: "gäteway"},
	}

	for _, key := range pairs {
		t.Run(key.String(), func(t *testing.T) {
			assert.Equal(t, key, ParsePaymentMethodKey(key.String()))
		})
	}
}

func TestPaymentMethodKey_Injective(t *testing.T) {
	pairs := []PaymentMethodKey{
		{ID: "a-b"},
		{ID: "b", Gateway: "a"},
		{ID: "a~-b"},
		{ID: "-b", Gateway: "a"},
		{ID: "b-", Gateway: "a"},
		{ID: "paypal", Gateway: "paypalcommerce"},
		{ID: "paypal", Gateway: "braintree"},
		{ID: "paypal"},
	}

	seen := make(map[string]PaymentMethodKey, len(pairs))
	for _, key := range pairs {
		encoded := key.String()
		if other, ok := seen[encoded]; ok {
			t.Fatalf("%+v and %+v both encode to %q", other, key, encoded)
		}
		seen[encoded] = key
	}
}

func TestPaymentMethodKey_SameIDDifferentGateway(t *testing.T) {
	first := UniquePaymentMethodID("paypal", "paypalcommerce")
	second := UniquePaymentMethodID("paypal", "braintree")

	assert.NotEqual(t, first, second)
}

func TestPaymentMethodKey_WithoutGatewayIsStable(t *testing.T) {
	key := UniquePaymentMethodID("squarev2", "")

	// Encoding a gateway-less method does not depend on other methods
	_ = UniquePaymentMethodID("squarev2", "braintree")
	assert.Equal(t, key, UniquePaymentMethodID("squarev2", ""))
	assert.Equal(t, "squarev2", key)
}

func TestParsePaymentMethodKey_ForeignValues(t *testing.T) {
	tests := []struct {
		value string
		want  PaymentMethodKey
	}{
		{value: "a-b-c", want: PaymentMethodKey{Gateway: "a", ID: "b-c"}},
		{value: "trailing~", want: PaymentMethodKey{ID: "trailing~"}},
		{value: "-", want: PaymentMethodKey{}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaymentMethodKey(tt.value))
		})
	}
}

func TestPaymentMethodKey_HasGateway(t *testing.T) {
	assert.False(t, NewPaymentMethodKey("paypal", "").HasGateway())
	assert.True(t, NewPaymentMethodKey("paypal", "braintree").HasGateway())
}
