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

// DashboardHandler serves the admin-only routes. Role checks happen in
// middleware.RequireAdmin before these run.
type DashboardHandler struct {
	dashboardService    service.DashboardService
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewDashboardHandler(dashboardService service.DashboardService, notificationService service.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:    dashboardService,
		notificationService: notificationService,
		validator:           validator.New(),
	}
}

// Summary godoc
//	@Summary		Dashboard summary
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{object}	models.DashboardSummary	"Counts of products, categories and orders"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard [get]
func (h *DashboardHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "dashboard summary")
		if !ok {
			return
		}

		summary, err := h.dashboardService.Summary(r.Context())
		if err != nil {
			logger.Error("Failed to build dashboard summary", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, summary)
	}
}

// ListProducts godoc
//	@Summary		List products for administration
//	@Tags			Dashboard
//	@Produce		json
//	@Param			page	query		int							false	"Page number (default: 1)"
//	@Success		200		{object}	models.Page[models.Product]	"One page of products"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Admin access required"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/products [get]
func (h *DashboardHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "dashboard list products")
		if !ok {
			return
		}

		page, err := h.dashboardService.ListProducts(r.Context(), utils.QueryInt(r, "page", 1))
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product"
//	@Success		201		{object}	models.Product				"Product created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or unknown category"
//	@Failure		409		{object}	response.ErrorResponse		"Product code already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/products [post]
func (h *DashboardHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "create product")
		if !ok {
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product input")
			return
		}

		product, err := h.dashboardService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create product", slog.String("code", req.Code), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Only the fields present in the body are changed.
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	models.Product				"Product updated"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or unknown category"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Product code already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/products/{id} [put]
func (h *DashboardHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "update product")
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product update input")
			return
		}

		product, err := h.dashboardService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Tags			Dashboard
//	@Produce		json
//	@Param			id	path	int	true	"Product ID"
//	@Success		204	"Product deleted"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		409	{object}	response.ErrorResponse	"Product is referenced by orders"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/products/{id} [delete]
func (h *DashboardHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "delete product")
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.dashboardService.DeleteProduct(r.Context(), id); err != nil {
			logger.Warn("Failed to delete product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.Int64("productId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateVariant godoc
//	@Summary		Add a variant to a product
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			variant	body		models.CreateVariantRequest	true	"Variant"
//	@Success		201		{object}	models.ProductVariant		"Variant created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/products/{id}/variants [post]
func (h *DashboardHandler) CreateVariant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "create variant")
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.CreateVariantRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid variant input")
			return
		}

		variant, err := h.dashboardService.CreateVariant(r.Context(), productID, &req)
		if err != nil {
			logger.Warn("Failed to create variant", slog.Int64("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Variant created", slog.Int64("productId", productID), slog.Int64("variantId", variant.ID))
		response.Success(w, http.StatusCreated, variant)
	}
}

// ListCategories godoc
//	@Summary		List categories for administration
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{array}		models.Category			"Categories"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/categories [get]
func (h *DashboardHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "dashboard list categories")
		if !ok {
			return
		}

		categories, err := h.dashboardService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// CreateCategory godoc
//	@Summary		Create a category
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CategoryRequest	true	"Category"
//	@Success		201			{object}	models.Category			"Category created"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		409			{object}	response.ErrorResponse	"Category already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/categories [post]
func (h *DashboardHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "create category")
		if !ok {
			return
		}

		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid category input")
			return
		}

		category, err := h.dashboardService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create category", slog.String("name", req.Name), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.Int64("categoryId", category.ID))
		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//	@Summary		Rename a category
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int						true	"Category ID"
//	@Param			category	body		models.CategoryRequest	true	"New name"
//	@Success		200			{object}	models.Category			"Category updated"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error or protected category"
//	@Failure		404			{object}	response.ErrorResponse	"Category not found"
//	@Failure		409			{object}	response.ErrorResponse	"Category already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/categories/{id} [put]
func (h *DashboardHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "update category")
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid category input")
			return
		}

		category, err := h.dashboardService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update category", slog.Int64("categoryId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category updated", slog.Int64("categoryId", id))
		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//	@Summary		Delete a category
//	@Tags			Dashboard
//	@Produce		json
//	@Param			id	path	int	true	"Category ID"
//	@Success		204	"Category deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Protected category"
//	@Failure		404	{object}	response.ErrorResponse	"Category not found"
//	@Failure		409	{object}	response.ErrorResponse	"Category still has products"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/categories/{id} [delete]
func (h *DashboardHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "delete category")
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.dashboardService.DeleteCategory(r.Context(), id); err != nil {
			logger.Warn("Failed to delete category", slog.Int64("categoryId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted", slog.Int64("categoryId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// OrderNotifications godoc
//	@Summary		List an order's notifications
//	@Description	Delivery attempts recorded for the order, including failures.
//	@Tags			Dashboard
//	@Produce		json
//	@Param			id	path		int						true	"Order ID"
//	@Success		200	{array}		models.Notification		"Notifications"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/dashboard/orders/{id}/notifications [get]
func (h *DashboardHandler) OrderNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := authenticated(w, r, "order notifications")
		if !ok {
			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		notifications, err := h.notificationService.ListOrderNotifications(r.Context(), orderID)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Int64("orderId", orderID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
