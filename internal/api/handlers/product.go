package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// catalogQuery copies the listing parameters as sent. Repeated size
// parameters are all kept.
func catalogQuery(r *http.Request) models.CatalogQuery {
	q := r.URL.Query()

	return models.CatalogQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sizes:    q["size"],
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Order:    q.Get("order"),
		Page:     q.Get("page"),
	}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Filtered, sorted and paginated catalog listing. Invalid filter values fall back to defaults instead of failing.
//	@Tags			Catalog
//	@Produce		json
//	@Param			category	query		int											false	"Category ID"
//	@Param			search		query		string										false	"Case-insensitive text matched against name, code, variant description and material"
//	@Param			size		query		[]string									false	"Sizes (repeatable)"	collectionFormat(multi)
//	@Param			min_price	query		number										false	"Minimum variant price"
//	@Param			max_price	query		number										false	"Maximum variant price"
//	@Param			order		query		string										false	"Sort key"	Enums(price_low_to_high, price_high_to_low, newest_first, oldest_first)
//	@Param			page		query		int											false	"Page number (default: 1)"
//	@Success		200			{object}	models.Page[models.Product]					"One page of products"
//	@Failure		500			{object}	response.ErrorResponse						"Internal server error"
//	@Router			/products [get]
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, err := h.catalogService.ListProducts(r.Context(), catalogQuery(r))
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Products listed", slog.Int("page", page.Page), slog.Int("total", page.TotalItems))
		response.Success(w, http.StatusOK, page)
	}
}

// CategoryProducts godoc
//	@Summary		List a category's products
//	@Description	Same filters as /products, restricted to one category.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		int							true	"Category ID"
//	@Success		200	{object}	models.Page[models.Product]	"One page of products"
//	@Failure		400	{object}	response.ErrorResponse		"Invalid category ID"
//	@Failure		404	{object}	response.ErrorResponse		"Category not found"
//	@Failure		500	{object}	response.ErrorResponse		"Internal server error"
//	@Router			/categories/{id}/products [get]
func (h *CatalogHandler) CategoryProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("categoryId", id))

		page, err := h.catalogService.CategoryProducts(r.Context(), id, catalogQuery(r))
		if err != nil {
			logger.Warn("Failed to list category products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category products listed", slog.Int("total", page.TotalItems))
		response.Success(w, http.StatusOK, page)
	}
}

// GetProduct godoc
//	@Summary		Get product details
//	@Description	Product with its category, variants, images and the 10 most recent reviews.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		int						true	"Product ID"
//	@Success		200	{object}	models.ProductDetail	"Product details"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		detail, err := h.catalogService.GetProductDetail(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product retrieved", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, detail)
	}
}

// ListCategories godoc
//	@Summary		List categories
//	@Description	Alphabetical, with "Others" always last.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}		models.Category			"Categories"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/categories [get]
func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}
