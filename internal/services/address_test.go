package service_test

import (
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddressService(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Get Latest", func(t *testing.T) {
		repo := &mocks.AddressRepository{}
		svc := service.NewAddressService(repo)
		repo.On("GetLatest", mock.Anything, userID).Return(&models.ShippingAddress{ID: 2, UserID: userID}, nil).Once()

		address, err := svc.GetAddress(t.Context(), userID)

		require.NoError(t, err)
		assert.Equal(t, int64(2), address.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - No Address", func(t *testing.T) {
		repo := &mocks.AddressRepository{}
		svc := service.NewAddressService(repo)
		repo.On("GetLatest", mock.Anything, userID).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.GetAddress(t.Context(), userID)

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Success - Save Trims Fields", func(t *testing.T) {
		// Arrange
		repo := &mocks.AddressRepository{}
		svc := service.NewAddressService(repo)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.ShippingAddress) bool {
			return a.UserID == userID && a.RecipientName == "Ayesha Khan" && a.PostalCode == 54000
		})).Return(nil).Once()

		// Act
		address, err := svc.SaveAddress(t.Context(), userID, &models.ShippingAddressRequest{
			RecipientName:  "  Ayesha Khan ",
			RecipientEmail: "ayesha@example.com",
			RecipientPhone: "03001234567",
			Address:        "12 Mall Road, Lahore",
			PostalCode:     54000,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Ayesha Khan", address.RecipientName)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Save Database Error", func(t *testing.T) {
		repo := &mocks.AddressRepository{}
		svc := service.NewAddressService(repo)
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

		_, err := svc.SaveAddress(t.Context(), userID, &models.ShippingAddressRequest{RecipientName: "A"})

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}
