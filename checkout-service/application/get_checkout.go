package application

import (
	"context"
	"time"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/models"
	"github.com/pkg/errors"
)

// GetCheckoutQuery represents the query to get a checkout
type GetCheckoutQuery struct {
	CheckoutID string `json:"checkout_id"`
}

// GetCheckoutResponse represents the response for getting a checkout
type GetCheckoutResponse struct {
	CheckoutID           string `json:"checkout_id"`
	IsEmbedded           bool   `json:"is_embedded"`
	IsUsingMultiShipping bool   `json:"is_using_multi_shipping"`
	PaymentProviderRadio string `json:"payment_provider_radio,omitempty"`
	Version              int    `json:"version"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// GetCheckout use case
type GetCheckout struct {
	checkoutRepository domain.CheckoutRepository
}

// NewGetCheckout creates a new GetCheckout use case
func NewGetCheckout(checkoutRepository domain.CheckoutRepository) *GetCheckout {
	return &GetCheckout{
		checkoutRepository: checkoutRepository,
	}
}

// Execute executes the get checkout use case
func (uc *GetCheckout) Execute(ctx context.Context, query *GetCheckoutQuery) (*GetCheckoutResponse, error) {
	checkout, err := findCheckout(ctx, uc.checkoutRepository, query.CheckoutID)
	if err != nil {
		return nil, err
	}

	return &GetCheckoutResponse{
		CheckoutID:           checkout.ID.String(),
		IsEmbedded:           checkout.IsEmbedded,
		IsUsingMultiShipping: checkout.IsUsingMultiShipping,
		PaymentProviderRadio: checkout.PaymentProviderRadio,
		Version:              checkout.Version.Int(),
		CreatedAt:            checkout.Timestamps.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            checkout.Timestamps.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ErrInvalidCheckoutID is returned for missing or malformed checkout ids
var ErrInvalidCheckoutID = errors.New("invalid checkout ID")

func findCheckout(ctx context.Context, repository domain.CheckoutRepository, rawID string) (*domain.Checkout, error) {
	if rawID == "" {
		return nil, errors.Wrap(ErrInvalidCheckoutID, "checkout ID is required")
	}

	checkoutID, err := models.NewID(rawID)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCheckoutID, err.Error())
	}

	checkout, err := repository.FindByID(ctx, checkoutID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find checkout")
	}

	if checkout == nil {
		return nil, domain.ErrCheckoutNotFound
	}

	return checkout, nil
}
