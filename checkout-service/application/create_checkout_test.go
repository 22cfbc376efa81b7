package application

import (
	"context"
	"testing"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/checkout-service/mocks"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateCheckout_Execute(t *testing.T) {
	tests := []struct {
		name          string
		command       *CreateCheckoutCommand
		setupMocks    func(*mocks.MockCheckoutRepository, *mocks.MockPublisher)
		expectedError string
	}{
		{
			name:    "successful checkout creation",
			command: &CreateCheckoutCommand{IsEmbedded: true},
			setupMocks: func(repo *mocks.MockCheckoutRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(checkout *domain.Checkout) bool {
					return checkout.IsEmbedded && !checkout.IsUsingMultiShipping
				})).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
					return evt.EventType == events.CheckoutCreatedEvent
				})).Return(nil).Once()
			},
		},
		{
			name:    "repository save error",
			command: &CreateCheckoutCommand{},
			setupMocks: func(repo *mocks.MockCheckoutRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.Checkout")).
					Return(errors.New("database error")).Once()
			},
			expectedError: "failed to save checkout",
		},
		{
			name:    "event publisher error",
			command: &CreateCheckoutCommand{IsUsingMultiShipping: true},
			setupMocks: func(repo *mocks.MockCheckoutRepository, publisher *mocks.MockPublisher) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.Checkout")).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).
					Return(errors.New("publisher error")).Once()
			},
			expectedError: "failed to publish events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockCheckoutRepository(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockRepo, mockPublisher)

			useCase := NewCreateCheckout(mockRepo, mockPublisher)

			result, err := useCase.Execute(context.Background(), tt.command)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)

				_, err := models.NewID(result.CheckoutID)
				assert.NoError(t, err)
			}
		})
	}
}
