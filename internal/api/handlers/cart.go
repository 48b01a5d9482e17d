package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the cart
//	@Description	Lines priced at the current variant price, with the subtotal. An empty cart is created on first access.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartSummary		"Cart summary"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "get cart")
		if !ok {
			return
		}

		summary, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, summary)
	}
}

// AddItem godoc
//	@Summary		Add an item to the cart
//	@Description	Adding a variant already in the cart increases its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Variant and quantity"
//	@Success		201		{object}	models.CartSummary		"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid quantity"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Product variant not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "add cart item")
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart item input")
			return
		}

		summary, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add item", slog.Int64("variantId", req.ProductVariantID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("variantId", req.ProductVariantID))
		response.Success(w, http.StatusCreated, summary)
	}
}

// UpdateItem godoc
//	@Summary		Change a cart item's quantity
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int								true	"Cart item ID"
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.CartSummary				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Invalid quantity"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse			"Item not found in the cart"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "update cart item")
		if !ok {
			return
		}

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid quantity input")
			return
		}

		summary, err := h.cartService.UpdateItemQuantity(r.Context(), claims.UserID, itemID, &req)
		if err != nil {
			logger.Warn("Failed to update item", slog.Int64("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item updated", slog.Int64("itemId", itemID))
		response.Success(w, http.StatusOK, summary)
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart item
//	@Tags			Cart
//	@Produce		json
//	@Param			id	path		int						true	"Cart item ID"
//	@Success		200	{object}	models.CartSummary		"Updated cart"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid item ID"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Item not found in the cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "remove cart item")
		if !ok {
			return
		}

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		summary, err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			logger.Warn("Failed to remove item", slog.Int64("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed", slog.Int64("itemId", itemID))
		response.Success(w, http.StatusOK, summary)
	}
}
