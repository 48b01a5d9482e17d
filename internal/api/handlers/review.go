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

type ReviewHandler struct {
	reviewService service.ReviewService
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validator: validator.New()}
}

// AddReview godoc
//	@Summary		Review a product
//	@Description	Appends a 1-5 rating with an optional comment. Markup in the comment is removed.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			review	body		models.CreateReviewRequest	true	"Rating and comment"
//	@Success		201		{object}	models.Review				"Review created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products/{id}/reviews [post]
func (h *ReviewHandler) AddReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "add review")
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.CreateReviewRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid review input")
			return
		}

		review, err := h.reviewService.AddReview(r.Context(), claims.UserID, productID, &req)
		if err != nil {
			logger.Warn("Failed to add review", slog.Int64("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Review added", slog.Int64("productId", productID), slog.Int64("reviewId", review.ID))
		response.Success(w, http.StatusCreated, review)
	}
}
