package service

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartSummary, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartSummary, error)
	UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, req *models.UpdateQuantityRequest) (*models.CartSummary, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) (*models.CartSummary, error)
}

var quantityLimitMessage = fmt.Sprintf("Quantity per line cannot exceed %d", models.MaxLineQuantity)

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartSummary, error) {

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return s.summary(ctx, cart)
}

func (s *cartService) summary(ctx context.Context, cart *models.Cart) (*models.CartSummary, error) {

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	totals := models.ComputeTotals(items)

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return &models.CartSummary{
		Cart:      cart,
		Lines:     totals.Lines,
		Subtotal:  totals.Subtotal,
		ItemCount: count,
	}, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartSummary, error) {

	quantity, err := req.Quantity.Int()
	if err != nil {
		return nil, appErrors.InvalidQuantityError("Quantity must be a whole number").WithError(err)
	}

	if quantity < 1 {
		return nil, appErrors.InvalidQuantityError("Quantity must be at least 1")
	}

	if quantity > models.MaxLineQuantity {
		return nil, appErrors.InvalidQuantityError(quantityLimitMessage)
	}

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if _, err := s.repo.AddItem(ctx, cart.ID, req.ProductVariantID, quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product variant not found").WithError(err)
		}
		if errors.Is(err, repository.ErrQuantityLimit) {
			return nil, appErrors.InvalidQuantityError(quantityLimitMessage).WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.summary(ctx, cart)
}

// UpdateItemQuantity removes the line when the new quantity is zero or less.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, req *models.UpdateQuantityRequest) (*models.CartSummary, error) {

	quantity, err := req.Quantity.Int()
	if err != nil {
		return nil, appErrors.InvalidQuantityError("Quantity must be a whole number").WithError(err)
	}

	if quantity > models.MaxLineQuantity {
		return nil, appErrors.InvalidQuantityError(quantityLimitMessage)
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Item not found in the cart").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) (*models.CartSummary, error) {

	if err := s.repo.RemoveItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Item not found in the cart").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to remove item from cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}
