package application

import (
	"context"
	"testing"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/checkout-service/mocks"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type selectMocks struct {
	checkouts *mocks.MockCheckoutRepository
	methods   *mocks.MockPaymentMethodRepository
	publisher *mocks.MockPublisher
}

func TestSelectPaymentMethod_Execute(t *testing.T) {
	braintreePayPal := &domain.PaymentMethod{ID: domain.PaymentMethodIDPayPal, Gateway: domain.PaymentMethodIDBraintree}

	tests := []struct {
		name            string
		preselected     *domain.PaymentMethod
		value           string
		setupMocks      func(m selectMocks, checkout *domain.Checkout)
		expectedError   string
		expectedValue   string
		expectedMethod  string
		expectedGateway string
		expectedChanged bool
	}{
		{
			name:  "selects gateway method",
			value: "braintree-paypal",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
				m.checkouts.EXPECT().Save(mock.Anything, checkout).Return(nil).Once()
				m.publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
					var data domain.PaymentMethodSelectedData
					if err := evt.UnmarshalPayload(&data); err != nil {
						return false
					}
					return evt.EventType == events.CheckoutPaymentMethodSelectedEvent &&
						data.PaymentProviderRadio == "braintree-paypal" &&
						data.Gateway == domain.PaymentMethodIDBraintree
				})).Return(nil).Once()
			},
			expectedValue:   "braintree-paypal",
			expectedMethod:  domain.PaymentMethodIDPayPal,
			expectedGateway: domain.PaymentMethodIDBraintree,
			expectedChanged: true,
		},
		{
			name:  "value without gateway matches on id",
			value: "paypal",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
				m.checkouts.EXPECT().Save(mock.Anything, checkout).Return(nil).Once()
				m.publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedValue:   "paypalcommerce-paypal",
			expectedMethod:  domain.PaymentMethodIDPayPal,
			expectedGateway: domain.PaymentMethodIDPayPalCommerce,
			expectedChanged: true,
		},
		{
			name:        "selecting the current method changes nothing",
			preselected: braintreePayPal,
			value:       "braintree-paypal",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
			},
			expectedValue:   "braintree-paypal",
			expectedMethod:  domain.PaymentMethodIDPayPal,
			expectedGateway: domain.PaymentMethodIDBraintree,
		},
		{
			name:  "unknown value",
			value: "stripev3",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
			},
			expectedError: "unable to find payment method with id: stripev3",
		},
		{
			name:  "payment methods repository error",
			value: "cod",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find payment methods",
		},
		{
			name:  "repository save error",
			value: "cod",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
				m.checkouts.EXPECT().Save(mock.Anything, checkout).Return(errors.New("version conflict")).Once()
			},
			expectedError: "failed to save checkout",
		},
		{
			name:  "event publisher error",
			value: "cod",
			setupMocks: func(m selectMocks, checkout *domain.Checkout) {
				m.checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
				m.methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()
				m.checkouts.EXPECT().Save(mock.Anything, checkout).Return(nil).Once()
				m.publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("publisher error")).Once()
			},
			expectedError: "failed to publish events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := selectMocks{
				checkouts: mocks.NewMockCheckoutRepository(t),
				methods:   mocks.NewMockPaymentMethodRepository(t),
				publisher: mocks.NewMockPublisher(t),
			}
			checkout := newTestCheckout(tt.preselected)
			tt.setupMocks(m, checkout)

			useCase := NewSelectPaymentMethod(m.checkouts, m.methods, m.publisher)

			result, err := useCase.Execute(context.Background(), &SelectPaymentMethodCommand{
				CheckoutID:           checkout.ID.String(),
				PaymentProviderRadio: tt.value,
			})

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result.PaymentProviderRadio)
			assert.Equal(t, tt.expectedMethod, result.MethodID)
			assert.Equal(t, tt.expectedGateway, result.Gateway)
			assert.Equal(t, tt.expectedChanged, result.Changed)
			assert.Equal(t, tt.expectedValue, checkout.PaymentProviderRadio)
			assert.Empty(t, checkout.Events())
		})
	}
}

func TestSelectPaymentMethod_ResolutionError(t *testing.T) {
	checkout := newTestCheckout(nil)

	checkouts := mocks.NewMockCheckoutRepository(t)
	methods := mocks.NewMockPaymentMethodRepository(t)
	publisher := mocks.NewMockPublisher(t)

	checkouts.EXPECT().FindByID(mock.Anything, checkout.ID).Return(checkout, nil).Once()
	methods.EXPECT().FindAll(mock.Anything).Return(catalogue(), nil).Once()

	_, err := NewSelectPaymentMethod(checkouts, methods, publisher).Execute(context.Background(), &SelectPaymentMethodCommand{
		CheckoutID:           checkout.ID.String(),
		PaymentProviderRadio: "adyenv3-paypal",
	})

	var resolutionErr *domain.PaymentMethodResolutionError
	require.True(t, errors.As(err, &resolutionErr))
	assert.Equal(t, "paypal", resolutionErr.ID)
	assert.Equal(t, "adyenv3", resolutionErr.Gateway)
	assert.Empty(t, checkout.PaymentProviderRadio)
}

func TestSelectPaymentMethod_CheckoutNotFound(t *testing.T) {
	checkouts := mocks.NewMockCheckoutRepository(t)
	checkouts.EXPECT().FindByID(mock.Anything, unknownID()).Return(nil, domain.ErrCheckoutNotFound).Once()

	useCase := NewSelectPaymentMethod(checkouts, mocks.NewMockPaymentMethodRepository(t), mocks.NewMockPublisher(t))

	_, err := useCase.Execute(context.Background(), &SelectPaymentMethodCommand{
		CheckoutID:           unknownCheckoutID,
		PaymentProviderRadio: "cod",
	})

	assert.True(t, errors.Is(err, domain.ErrCheckoutNotFound))
}
