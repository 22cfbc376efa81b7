package application

import (
	"context"
	"testing"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/checkout-service/mocks"
	"github.com/draftea/checkout-system/shared/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestListPaymentMethods_Execute(t *testing.T) {
	checkout := newTestCheckout(&domain.PaymentMethod{ID: domain.PaymentMethodIDPayPal, Gateway: domain.PaymentMethodIDBraintree})
	checkout.IsEmbedded = true

	checkouts := mocks.NewMockCheckoutRepository(t)
	methods := mocks.NewMockPaymentMethodRepository(t)
	checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
	methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()

	result, err := NewListPaymentMethods(checkouts, methods).Execute(context.Background(), &ListPaymentMethodsQuery{
		CheckoutID: checkout.ID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProviderRadioField, result.FieldName)
	assert.Equal(t, "braintree-paypal", result.SelectedValue)
	require.Len(t, result.Items, 4)

	values := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		values = append(values, item.Value)
		assert.Equal(t, "radio-"+item.Value, item.HTMLID)
		assert.True(t, item.Content.IsEmbedded)
		assert.False(t, item.Content.IsUsingMultiShipping)
	}
	assert.Equal(t, []string{"paypalcommerce-paypal", "braintree-paypal", "paypalcommerceacceleratedcheckout", "cod"}, values)

	assert.False(t, result.Items[0].Title.IsSelected)
	assert.True(t, result.Items[1].Title.IsSelected)
	assert.True(t, result.Items[2].Content.IsAcceleratedCheckout)
	assert.Equal(t, "Cash on delivery", result.Items[3].Title.DisplayName)
}

func TestListPaymentMethods_ReportsRenderErrors(t *testing.T) {
	checkout := newTestCheckout(nil)

	hosted := &domain.PaymentMethod{ID: domain.PaymentMethodIDAdyenV3, Type: domain.PaymentMethodTypeHosted}

	checkouts := mocks.NewMockCheckoutRepository(t)
	methods := mocks.NewMockPaymentMethodRepository(t)
	checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
	methods.EXPECT().FindAll(mock.Anything).Return([]*domain.PaymentMethod{hosted}, nil).Once()

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logging.ContextWithLogger(context.Background(), zap.New(core))

	result, err := NewListPaymentMethods(checkouts, methods).Execute(ctx, &ListPaymentMethodsQuery{
		CheckoutID: checkout.ID.String(),
	})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Empty(t, result.SelectedValue)

	entries := logs.FilterMessage("payment method rendered with errors").All()
	require.Len(t, entries, 1)
	assert.Equal(t, checkout.ID.String(), entries[0].ContextMap()["checkout_id"])
}

func TestListPaymentMethods_Errors(t *testing.T) {
	t.Run("checkout not found", func(t *testing.T) {
		checkouts := mocks.NewMockCheckoutRepository(t)
		checkouts.EXPECT().FindByID(mock.Anything, unknownID()).Return(nil, domain.ErrCheckoutNotFound).Once()

		_, err := NewListPaymentMethods(checkouts, mocks.NewMockPaymentMethodRepository(t)).Execute(context.Background(), &ListPaymentMethodsQuery{
			CheckoutID: unknownCheckoutID,
		})

		assert.True(t, errors.Is(err, domain.ErrCheckoutNotFound))
	})

	t.Run("payment methods repository error", func(t *testing.T) {
		checkout := newTestCheckout(nil)
		checkouts := mocks.NewMockCheckoutRepository(t)
		methods := mocks.NewMockPaymentMethodRepository(t)
		checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
		methods.EXPECT().FindAll(mock.Anything).Return(nil, errors.New("database error")).Once()

		_, err := NewListPaymentMethods(checkouts, methods).Execute(context.Background(), &ListPaymentMethodsQuery{
			CheckoutID: checkout.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to find payment methods")
	})
}
