package service_test

import (
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	cacheMocks "github.com/aaravmahajanofficial/storefront/internal/cache/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var catalogConfig = &config.Catalog{PageSize: 12, DefaultMinPrice: "900", DefaultMaxPrice: "75000"}

type catalogFixture struct {
	products   *mocks.ProductRepository
	categories *mocks.CategoryRepository
	reviews    *mocks.ReviewRepository
	cache      *cacheMocks.Cache
	svc        service.CatalogService
}

func setupCatalog(t *testing.T) *catalogFixture {
	f := &catalogFixture{
		products:   &mocks.ProductRepository{},
		categories: &mocks.CategoryRepository{},
		reviews:    &mocks.ReviewRepository{},
		cache:      &cacheMocks.Cache{},
	}
	f.svc = service.NewCatalogService(f.products, f.categories, f.reviews, f.cache, catalogConfig)

	t.Cleanup(func() {
		f.products.AssertExpectations(t)
		f.categories.AssertExpectations(t)
		f.reviews.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	return f
}

func TestNormalizeFilter(t *testing.T) {
	defMin, defMax := decimal.NewFromInt(900), decimal.NewFromInt(75000)

	t.Run("Success - Empty Query", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{}, defMin, defMax)

		assert.Nil(t, filter.CategoryID)
		assert.Empty(t, filter.Sizes)
		assert.Nil(t, filter.MinPrice)
		assert.Nil(t, filter.MaxPrice)
		assert.Equal(t, models.SortNewestFirst, filter.Sort)
		assert.Equal(t, 1, filter.Page)
	})

	t.Run("Success - Full Query", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{
			Category: "3",
			Search:   "  lawn ",
			Sizes:    []string{"s", "M,xl", "M", "XXL"},
			MinPrice: "1000",
			MaxPrice: "5000",
			Order:    "price_high_to_low",
			Page:     "2",
		}, defMin, defMax)

		require.NotNil(t, filter.CategoryID)
		assert.Equal(t, int64(3), *filter.CategoryID)
		assert.Equal(t, "lawn", filter.Search)
		assert.Equal(t, []models.Size{models.SizeS, models.SizeM, models.SizeXL}, filter.Sizes)
		assert.Equal(t, "1000", filter.MinPrice.String())
		assert.Equal(t, "5000", filter.MaxPrice.String())
		assert.Equal(t, models.SortPriceHighToLow, filter.Sort)
		assert.Equal(t, 2, filter.Page)
	})

	t.Run("Success - Malformed Prices Use Defaults", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{MinPrice: "cheap", MaxPrice: "-5"}, defMin, defMax)

		require.NotNil(t, filter.MinPrice)
		assert.True(t, defMin.Equal(*filter.MinPrice))
		assert.True(t, defMax.Equal(*filter.MaxPrice))
	})

	t.Run("Success - Out Of Range Prices Use Defaults", func(t *testing.T) {
		for _, raw := range []string{"1e400", "1e5000000", "-5", "123456789", "99999999.995", "+10", "1,000", "0x10", ".5"} {
			filter := service.NormalizeFilter(models.CatalogQuery{MinPrice: raw, MaxPrice: raw}, defMin, defMax)

			require.NotNil(t, filter.MinPrice, raw)
			assert.True(t, defMin.Equal(*filter.MinPrice), raw)
			assert.True(t, defMax.Equal(*filter.MaxPrice), raw)
		}
	})

	t.Run("Success - Largest Price And Rounding", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{MinPrice: "19.999", MaxPrice: "99999999.99"}, defMin, defMax)

		assert.Equal(t, "20", filter.MinPrice.String())
		assert.Equal(t, "99999999.99", filter.MaxPrice.String())
	})

	t.Run("Success - Search Stripped Of NUL And Invalid UTF-8", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{Search: " shirt\x00\xff "}, defMin, defMax)

		assert.Equal(t, "shirt", filter.Search)
	})

	t.Run("Success - Single Bound Gets Default Partner", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{MaxPrice: "2000"}, defMin, defMax)

		assert.True(t, defMin.Equal(*filter.MinPrice))
		assert.Equal(t, "2000", filter.MaxPrice.String())
	})

	t.Run("Success - Inverted Range Swapped", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{MinPrice: "5000", MaxPrice: "1000"}, defMin, defMax)

		assert.Equal(t, "1000", filter.MinPrice.String())
		assert.Equal(t, "5000", filter.MaxPrice.String())
	})

	t.Run("Success - Bad Sort And Page Fall Back", func(t *testing.T) {
		filter := service.NormalizeFilter(models.CatalogQuery{Order: "cheapest", Page: "abc", Category: "x"}, defMin, defMax)

		assert.Equal(t, models.SortNewestFirst, filter.Sort)
		assert.Equal(t, 1, filter.Page)
		assert.Nil(t, filter.CategoryID)
	})
}

func TestCatalogService_ListProducts(t *testing.T) {
	t.Run("Success - Passes Normalized Filter", func(t *testing.T) {
		// Arrange
		f := setupCatalog(t)
		page := models.NewPage[models.Product](1, 12, 0)
		f.products.On("ListProducts", mock.Anything, mock.MatchedBy(func(filter models.ProductFilter) bool {
			return filter.Search == "kurta" && filter.Sort == models.SortOldestFirst && filter.Page == 1
		}), 12).Return(&page, nil).Once()

		// Act
		result, err := f.svc.ListProducts(t.Context(), models.CatalogQuery{Search: "kurta", Order: "oldest_first", Page: "0"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalPages)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		f := setupCatalog(t)
		f.products.On("ListProducts", mock.Anything, mock.Anything, 12).Return(nil, errors.New("boom")).Once()

		result, err := f.svc.ListProducts(t.Context(), models.CatalogQuery{})

		assert.Nil(t, result)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestCatalogService_CategoryProducts(t *testing.T) {
	t.Run("Success - Category Forced Into Filter", func(t *testing.T) {
		f := setupCatalog(t)
		page := models.NewPage[models.Product](1, 12, 0)
		f.categories.On("GetCategoryByID", mock.Anything, int64(4)).Return(&models.Category{ID: 4, Name: "Kurta"}, nil).Once()
		f.products.On("ListProducts", mock.Anything, mock.MatchedBy(func(filter models.ProductFilter) bool {
			return filter.CategoryID != nil && *filter.CategoryID == 4
		}), 12).Return(&page, nil).Once()

		_, err := f.svc.CategoryProducts(t.Context(), 4, models.CatalogQuery{Category: "9"})

		require.NoError(t, err)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		f := setupCatalog(t)
		f.categories.On("GetCategoryByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound).Once()

		_, err := f.svc.CategoryProducts(t.Context(), 99, models.CatalogQuery{})

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		f.products.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCatalogService_ListCategories(t *testing.T) {
	t.Run("Success - Cache Hit", func(t *testing.T) {
		// Arrange
		f := setupCatalog(t)
		cached := []models.Category{{ID: 1, Name: "Apple"}, {ID: 2, Name: "Others"}}
		f.cache.On("Get", mock.Anything, cache.CategoryListKey, mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*[]models.Category) = cached
			}).
			Return(true, nil).Once()

		// Act
		categories, err := f.svc.ListCategories(t.Context())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cached, categories)
		f.categories.AssertNotCalled(t, "ListCategories", mock.Anything)
	})

	t.Run("Success - Cache Miss Sorts And Stores", func(t *testing.T) {
		f := setupCatalog(t)
		f.cache.On("Get", mock.Anything, cache.CategoryListKey, mock.Anything).Return(false, nil).Once()
		f.categories.On("ListCategories", mock.Anything).
			Return([]models.Category{{Name: "Zebra"}, {Name: "Others"}, {Name: "Apple"}}, nil).Once()
		f.cache.On("Set", mock.Anything, cache.CategoryListKey, mock.Anything, mock.Anything).Return(nil).Once()

		categories, err := f.svc.ListCategories(t.Context())

		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Apple", categories[0].Name)
		assert.Equal(t, "Zebra", categories[1].Name)
		assert.Equal(t, "Others", categories[2].Name)
	})

	t.Run("Success - Cache Errors Ignored", func(t *testing.T) {
		f := setupCatalog(t)
		f.cache.On("Get", mock.Anything, cache.CategoryListKey, mock.Anything).Return(false, errors.New("redis down")).Once()
		f.categories.On("ListCategories", mock.Anything).Return([]models.Category{{Name: "Kurta"}}, nil).Once()
		f.cache.On("Set", mock.Anything, cache.CategoryListKey, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		categories, err := f.svc.ListCategories(t.Context())

		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("Success - No Cache Configured", func(t *testing.T) {
		categoriesRepo := &mocks.CategoryRepository{}
		svc := service.NewCatalogService(&mocks.ProductRepository{}, categoriesRepo, &mocks.ReviewRepository{}, nil, catalogConfig)
		categoriesRepo.On("ListCategories", mock.Anything).Return([]models.Category{{Name: "Kurta"}}, nil).Once()

		categories, err := svc.ListCategories(t.Context())

		require.NoError(t, err)
		assert.Len(t, categories, 1)
		categoriesRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		f := setupCatalog(t)
		f.cache.On("Get", mock.Anything, cache.CategoryListKey, mock.Anything).Return(false, nil).Once()
		f.categories.On("ListCategories", mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := f.svc.ListCategories(t.Context())

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestCatalogService_GetProductDetail(t *testing.T) {
	t.Run("Success - Product With Children", func(t *testing.T) {
		// Arrange
		f := setupCatalog(t)
		product := &models.Product{ID: 7, CategoryID: 2, Name: "Lawn Suit"}
		f.products.On("GetProductByID", mock.Anything, int64(7)).Return(product, nil).Once()
		f.categories.On("GetCategoryByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2, Name: "Suit"}, nil).Once()
		f.products.On("ListVariants", mock.Anything, int64(7)).Return([]models.ProductVariant{{ID: 70, Size: models.SizeM}}, nil).Once()
		f.products.On("ListImages", mock.Anything, int64(7)).Return([]models.ProductImage{{ID: 1, URL: "a.jpg"}}, nil).Once()
		f.reviews.On("ListRecentByProduct", mock.Anything, int64(7), 10).Return([]models.Review{{ID: 3, Rating: 5}}, nil).Once()

		// Act
		detail, err := f.svc.GetProductDetail(t.Context(), 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, detail.Product)
		assert.Equal(t, "Suit", detail.Category.Name)
		assert.Len(t, detail.Variants, 1)
		assert.Len(t, detail.Images, 1)
		assert.Len(t, detail.Reviews, 1)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		f := setupCatalog(t)
		f.products.On("GetProductByID", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound).Once()

		_, err := f.svc.GetProductDetail(t.Context(), 8)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Failure - Child Load Error", func(t *testing.T) {
		f := setupCatalog(t)
		f.products.On("GetProductByID", mock.Anything, int64(7)).Return(&models.Product{ID: 7, CategoryID: 2}, nil).Once()
		f.categories.On("GetCategoryByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2}, nil).Maybe()
		f.products.On("ListVariants", mock.Anything, int64(7)).Return(nil, errors.New("boom")).Once()
		f.products.On("ListImages", mock.Anything, int64(7)).Return(nil, nil).Maybe()
		f.reviews.On("ListRecentByProduct", mock.Anything, int64(7), 10).Return(nil, nil).Maybe()

		_, err := f.svc.GetProductDetail(t.Context(), 7)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}
