package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	t.Run("Success - Query Forwarded As Sent", func(t *testing.T) {
		// Arrange
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		want := models.CatalogQuery{
			Category: "3",
			Search:   "kurta",
			Sizes:    []string{"S", "m"},
			MinPrice: "100",
			MaxPrice: "abc",
			Order:    "price_low_to_high",
			Page:     "2",
		}

		page := models.NewPage[models.Product](2, 12, 14)
		page.Items = []models.Product{{ID: 13, Name: "Lawn Kurta"}, {ID: 14, Name: "Silk Kurta"}}
		catalogService.On("ListProducts", mock.Anything, want).Return(&page, nil).Once()

		target := "/api/v1/products?category=3&search=kurta&size=S&size=m&min_price=100&max_price=abc&order=price_low_to_high&page=2"
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, target, nil, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.ListProducts()(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Page[models.Product]
		resp := testutils.DecodeResponse(t, rec, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, got.Page)
		assert.Len(t, got.Items, 2)
		assert.True(t, got.HasPrevious)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		catalogService.On("ListProducts", mock.Anything, mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to list products")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products", nil, nil)
		rec := httptest.NewRecorder()

		handler.ListProducts()(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCategoryProducts(t *testing.T) {
	t.Run("Success - Category Listing", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		page := models.NewPage[models.Product](1, 12, 0)
		catalogService.On("CategoryProducts", mock.Anything, int64(4), models.CatalogQuery{Order: "newest_first"}).
			Return(&page, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories/4/products?order=newest_first", nil, map[string]string{"id": "4"})
		rec := httptest.NewRecorder()

		handler.CategoryProducts()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		catalogService.On("CategoryProducts", mock.Anything, int64(99), mock.Anything).
			Return(nil, appErrors.NotFoundError("Category not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories/99/products", nil, map[string]string{"id": "99"})
		rec := httptest.NewRecorder()

		handler.CategoryProducts()(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories/abc/products", nil, map[string]string{"id": "abc"})
		rec := httptest.NewRecorder()

		handler.CategoryProducts()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		catalogService.AssertNotCalled(t, "CategoryProducts", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Success - Detail Returned", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		detail := &models.ProductDetail{
			Product:  &models.Product{ID: 7, Name: "Linen Shirt"},
			Category: &models.Category{ID: 1, Name: "Shirts"},
			Variants: []models.ProductVariant{{ID: 70, Size: models.SizeM}},
			Images:   []models.ProductImage{},
			Reviews:  []models.Review{{ID: 1, Rating: 5}},
		}
		catalogService.On("GetProductDetail", mock.Anything, int64(7)).Return(detail, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/7", nil, map[string]string{"id": "7"})
		rec := httptest.NewRecorder()

		handler.GetProduct()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.ProductDetail
		testutils.DecodeResponse(t, rec, &got)
		require.NotNil(t, got.Product)
		assert.Equal(t, "Linen Shirt", got.Product.Name)
		assert.Len(t, got.Variants, 1)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		catalogService := mocks.NewMockCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		catalogService.On("GetProductDetail", mock.Anything, int64(8)).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/8", nil, map[string]string{"id": "8"})
		rec := httptest.NewRecorder()

		handler.GetProduct()(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListCategories(t *testing.T) {
	catalogService := mocks.NewMockCatalogService(t)
	handler := handlers.NewCatalogHandler(catalogService)

	catalogService.On("ListCategories", mock.Anything).
		Return([]models.Category{{ID: 2, Name: "Kurta"}, {ID: 1, Name: "Others"}}, nil).Once()

	req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories", nil, nil)
	rec := httptest.NewRecorder()

	handler.ListCategories()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []models.Category
	testutils.DecodeResponse(t, rec, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "Others", got[1].Name)
}
