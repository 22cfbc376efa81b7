package domain

import "strings"

const (
	keyDelimiter = '-'
	keyEscape    = '~'
)

var keyComponentEscaper = strings.NewReplacer(
	string(keyEscape), string([]rune{keyEscape, keyEscape}),
	string(keyDelimiter), string([]rune{keyEscape, keyDelimiter}),
)

// PaymentMethodKey identifies a payment method within one method list: the
// method id plus the gateway it is offered through. An empty Gateway means
// the method has none.
//
// The same id can be offered by several gateways (PayPal through both
// paypalcommerce and braintree, for instance), so the id alone is not unique.
type PaymentMethodKey struct {
	ID      string
	Gateway string
}

// NewPaymentMethodKey builds the key for id and optional gateway
func NewPaymentMethodKey(id, gateway string) PaymentMethodKey {
	return PaymentMethodKey{ID: id, Gateway: gateway}
}

// HasGateway reports whether the key carries a gateway
func (k PaymentMethodKey) HasGateway() bool {
	return k.Gateway != ""
}

// String encodes the key as "<gateway>-<id>", or "<id>" without a gateway.
// Inside each part "~" is written "~~" and "-" is written "~-", which keeps
// the encoding reversible for ids that contain the delimiter.
func (k PaymentMethodKey) String() string {
	id := keyComponentEscaper.Replace(k.ID)
	if !k.HasGateway() {
		return id
	}
	return keyComponentEscaper.Replace(k.Gateway) + string(keyDelimiter) + id
}

// ParsePaymentMethodKey decodes a value produced by PaymentMethodKey.String.
// Values String never produces still decode to something, without error:
// any bare delimiter after the first is kept as part of the id and a
// trailing lone escape is kept literally.
func ParsePaymentMethodKey(value string) PaymentMethodKey {
	var (
		parts   [2]strings.Builder
		current = 0
		escaped = false
	)

	for _, r := range value {
		switch {
		case escaped:
			parts[current].WriteRune(r)
			escaped = false
		case r == keyEscape:
			escaped = true
		case r == keyDelimiter && current == 0:
			current = 1
		default:
			parts[current].WriteRune(r)
		}
	}

	if escaped {
		parts[current].WriteRune(keyEscape)
	}

	if current == 0 {
		return PaymentMethodKey{ID: parts[0].String()}
	}
	return PaymentMethodKey{ID: parts[1].String(), Gateway: parts[0].String()}
}

// UniquePaymentMethodID returns the encoded key for id and optional gateway
func UniquePaymentMethodID(id, gateway string) string {
	return NewPaymentMethodKey(id, gateway).String()
}
