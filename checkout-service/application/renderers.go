package application

import (
	"fmt"

	"github.com/draftea/checkout-system/checkout-service/domain"
)

// TitleView is the label of a list item
type TitleView struct {
	DisplayName string `json:"display_name"`
	LogoURL     string `json:"logo_url,omitempty"`
	Method      string `json:"method"`
	IsSelected  bool   `json:"is_selected"`
}

// ContentView is the body of a list item: what the storefront needs to mount
// the method's form
type ContentView struct {
	MethodID                   string   `json:"method_id"`
	Gateway                    string   `json:"gateway,omitempty"`
	Type                       string   `json:"type"`
	InitializationStrategy     string   `json:"initialization_strategy,omitempty"`
	ClientToken                string   `json:"client_token,omitempty"`
	SupportedCards             []string `json:"supported_cards,omitempty"`
	HelpText                   string   `json:"help_text,omitempty"`
	TestMode                   bool     `json:"test_mode"`
	IsVaultingEnabled          bool     `json:"is_vaulting_enabled"`
	HasDefaultStoredInstrument bool     `json:"has_default_stored_instrument"`
	IsAcceleratedCheckout      bool     `json:"is_accelerated_checkout"`
	IsEmbedded                 bool     `json:"is_embedded"`
	IsUsingMultiShipping       bool     `json:"is_using_multi_shipping"`
}

// PaymentMethodItemView is one rendered list item
type PaymentMethodItemView struct {
	Value   string      `json:"value"`
	HTMLID  string      `json:"html_id"`
	Title   TitleView   `json:"title"`
	Content ContentView `json:"content"`
}

// MissingClientTokenError is reported when a hosted method arrives without
// the token its provider form needs
type MissingClientTokenError struct {
	MethodID string
	Gateway  string
}

func (e *MissingClientTokenError) Error() string {
	if e.Gateway != "" {
		return fmt.Sprintf("payment method %s (%s) has no client token", e.MethodID, e.Gateway)
	}
	return fmt.Sprintf("payment method %s has no client token", e.MethodID)
}

// RenderTitle renders the label of an item. isSelected reflects the current
// form value of the list.
func RenderTitle(item domain.PaymentMethodListItem, isSelected bool) TitleView {
	return TitleView{
		DisplayName: item.Method.DisplayName(),
		LogoURL:     item.Method.LogoURL,
		Method:      item.Method.Method,
		IsSelected:  isSelected,
	}
}

// RenderContent renders the body of an item. Problems that leave the item
// usable are reported through the item's OnUnhandledError.
func RenderContent(item domain.PaymentMethodListItem) ContentView {
	method := item.Method

	if method.IsHosted() && method.ClientToken == "" {
		reportUnhandledError(item, &MissingClientTokenError{MethodID: method.ID, Gateway: method.Gateway})
	}

	return ContentView{
		MethodID:                   method.ID,
		Gateway:                    method.Gateway,
		Type:                       method.Type,
		InitializationStrategy:     method.InitializationStrategy.Type,
		ClientToken:                method.ClientToken,
		SupportedCards:             method.SupportedCards,
		HelpText:                   method.Config.HelpText,
		TestMode:                   method.Config.TestMode,
		IsVaultingEnabled:          method.Config.IsVaultingEnabled,
		HasDefaultStoredInstrument: method.Config.HasDefaultStoredInstrument,
		IsAcceleratedCheckout:      domain.IsPayPalCommerceConnectMethod(method.ID),
		IsEmbedded:                 item.IsEmbedded,
		IsUsingMultiShipping:       item.IsUsingMultiShipping,
	}
}

// RenderItem renders title and content of an item
func RenderItem(item domain.PaymentMethodListItem) PaymentMethodItemView {
	return PaymentMethodItemView{
		Value:   item.Value,
		HTMLID:  item.HTMLID,
		Title:   RenderTitle(item, item.Selected),
		Content: RenderContent(item),
	}
}

func reportUnhandledError(item domain.PaymentMethodListItem, err error) {
	if item.OnUnhandledError != nil {
		item.OnUnhandledError(err)
	}
}
