package handlers

import (
	"log/slog"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	addressService service.AddressService
	orderService   service.OrderService
	validator      *validator.Validate
}

func NewCheckoutHandler(addressService service.AddressService, orderService service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		addressService: addressService,
		orderService:   orderService,
		validator:      validator.New(),
	}
}

// GetAddress godoc
//	@Summary		Get the shipping address
//	@Description	Returns the caller's most recently saved shipping address.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.ShippingAddress	"Shipping address"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"No shipping address saved"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout/address [get]
func (h *CheckoutHandler) GetAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "get shipping address")
		if !ok {
			return
		}

		address, err := h.addressService.GetAddress(r.Context(), claims.UserID)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
				logger.Info("No shipping address saved yet")
			} else {
				logger.Warn("Failed to get shipping address", slog.String("error", err.Error()))
			}
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, address)
	}
}

// SaveAddress godoc
//	@Summary		Save the shipping address
//	@Description	Updates the latest saved address, or creates one when none exists.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			address	body		models.ShippingAddressRequest	true	"Shipping address"
//	@Success		200		{object}	models.ShippingAddress			"Saved address"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout/address [put]
func (h *CheckoutHandler) SaveAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "save shipping address")
		if !ok {
			return
		}

		var req models.ShippingAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid shipping address input")
			return
		}

		address, err := h.addressService.SaveAddress(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to save shipping address", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Shipping address saved", slog.Int64("addressId", address.ID))
		response.Success(w, http.StatusOK, address)
	}
}

// Review godoc
//	@Summary		Review the checkout
//	@Description	Cart lines, subtotal, shipping charge and total against the saved address. Nothing is written.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.CheckoutReview	"Checkout review"
//	@Failure		409	{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		422	{object}	response.ErrorResponse	"No shipping address"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout/review [get]
func (h *CheckoutHandler) Review() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "checkout review")
		if !ok {
			return
		}

		review, err := h.orderService.CheckoutReview(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Checkout review unavailable", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, review)
	}
}
