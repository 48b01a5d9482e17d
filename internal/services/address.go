package service

import (
	"context"
	"errors"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type AddressService interface {
	GetAddress(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error)
	SaveAddress(ctx context.Context, userID uuid.UUID, req *models.ShippingAddressRequest) (*models.ShippingAddress, error)
}

type addressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) GetAddress(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error) {

	address, err := s.repo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Shipping address not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch shipping address").WithError(err)
	}

	return address, nil
}

func (s *addressService) SaveAddress(ctx context.Context, userID uuid.UUID, req *models.ShippingAddressRequest) (*models.ShippingAddress, error) {

	address := &models.ShippingAddress{
		UserID:         userID,
		RecipientName:  strings.TrimSpace(req.RecipientName),
		RecipientEmail: strings.TrimSpace(req.RecipientEmail),
		RecipientPhone: strings.TrimSpace(req.RecipientPhone),
		Address:        strings.TrimSpace(req.Address),
		PostalCode:     req.PostalCode,
	}

	if err := s.repo.Save(ctx, address); err != nil {
		return nil, appErrors.DatabaseError("Failed to save shipping address").WithError(err)
	}

	return address, nil
}
