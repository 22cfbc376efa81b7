package domain

import "context"

// PaymentMethod is a payment method offered to checkouts, as provided by the
// payment catalogue. Gateway is empty when the method is not proxied
// through another gateway.
type PaymentMethod struct {
	ID                     string                 `json:"id"`
	Gateway                string                 `json:"gateway,omitempty"`
	Method                 string                 `json:"method"`
	Type                   string                 `json:"type"`
	LogoURL                string                 `json:"logo_url,omitempty"`
	Config                 PaymentMethodConfig    `json:"config"`
	SupportedCards         []string               `json:"supported_cards"`
	InitializationStrategy InitializationStrategy `json:"initialization_strategy"`
	ClientToken            string                 `json:"client_token,omitempty"`
	SortOrder              int                    `json:"sort_order"`
}

// PaymentMethodConfig holds the presentation settings of a method
type PaymentMethodConfig struct {
	DisplayName                string `json:"display_name"`
	HelpText                   string `json:"help_text,omitempty"`
	TestMode                   bool   `json:"test_mode"`
	IsVaultingEnabled          bool   `json:"is_vaulting_enabled"`
	HasDefaultStoredInstrument bool   `json:"has_default_stored_instrument"`
}

// InitializationStrategy tells the storefront how the method's form is mounted
type InitializationStrategy struct {
	Type string `json:"type"`
}

// Payment method types
const (
	PaymentMethodTypeAPI             = "PAYMENT_TYPE_API"
	PaymentMethodTypeHosted          = "PAYMENT_TYPE_HOSTED"
	PaymentMethodTypeOffline         = "PAYMENT_TYPE_OFFLINE"
	PaymentMethodTypeOfflineManually = "PAYMENT_TYPE_OFFLINE_MANUAL"
)

// Key returns the key identifying the method within a list
func (m *PaymentMethod) Key() PaymentMethodKey {
	return NewPaymentMethodKey(m.ID, m.Gateway)
}

// DisplayName returns the configured display name, falling back to the id
func (m *PaymentMethod) DisplayName() string {
	if m.Config.DisplayName != "" {
		return m.Config.DisplayName
	}
	return m.ID
}

// IsHosted reports whether the method is rendered by a hosted provider form
func (m *PaymentMethod) IsHosted() bool {
	return m.Type == PaymentMethodTypeHosted
}

// PaymentMethodRepository stores the payment method catalogue
type PaymentMethodRepository interface {
	// FindAll returns the catalogue ordered by sort order
	FindAll(ctx context.Context) ([]*PaymentMethod, error)
	// ReplaceAll swaps the whole catalogue for methods
	ReplaceAll(ctx context.Context, methods []*PaymentMethod) error
}
