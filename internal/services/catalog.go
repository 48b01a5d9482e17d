package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentReviewsLimit = 10

var (
	fallbackMinPrice = decimal.NewFromInt(900)
	fallbackMaxPrice = decimal.NewFromInt(75000)
)

type CatalogService interface {
	ListProducts(ctx context.Context, query models.CatalogQuery) (*models.Page[models.Product], error)
	CategoryProducts(ctx context.Context, categoryID int64, query models.CatalogQuery) (*models.Page[models.Product], error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
	cache        cache.Cache
	pageSize     int
	minPrice     decimal.Decimal
	maxPrice     decimal.Decimal
}

// NewCatalogService accepts a nil cache, in which case categories are
// always read from the database.
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, reviewRepo repository.ReviewRepository, c cache.Cache, cfg *config.Catalog) CatalogService {

	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		cache:        c,
		pageSize:     pageSize,
		minPrice:     parsePrice(cfg.DefaultMinPrice, fallbackMinPrice),
		maxPrice:     parsePrice(cfg.DefaultMaxPrice, fallbackMaxPrice),
	}
}

// plain decimals that fit NUMERIC(10, 2); exponents and signs are malformed
var (
	priceRe      = regexp.MustCompile(`^\d{1,8}(\.\d{0,10})?$`)
	priceCeiling = decimal.RequireFromString("99999999.99")
)

func parsePrice(raw string, fallback decimal.Decimal) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if !priceRe.MatchString(raw) {
		return fallback
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}

	price = price.Round(2)
	if price.GreaterThan(priceCeiling) {
		return fallback
	}

	return price
}

// cleanSearch drops bytes Postgres refuses in text parameters.
func cleanSearch(raw string) string {
	s := strings.ToValidUTF8(raw, "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// NormalizeFilter turns raw query values into a filter. Bad input never
// fails: unknown sizes are dropped, malformed prices take the defaults,
// unknown sort keys become newest first and a bad page becomes page 1.
func NormalizeFilter(query models.CatalogQuery, defaultMin, defaultMax decimal.Decimal) models.ProductFilter {

	filter := models.ProductFilter{
		Search: cleanSearch(query.Search),
		Sort:   models.SortNewestFirst,
		Page:   1,
	}

	if id, err := strconv.ParseInt(strings.TrimSpace(query.Category), 10, 64); err == nil && id > 0 {
		filter.CategoryID = &id
	}

	for _, raw := range query.Sizes {
		for _, part := range strings.Split(raw, ",") {
			size := models.Size(strings.ToUpper(strings.TrimSpace(part)))
			if size.Valid() && !slices.Contains(filter.Sizes, size) {
				filter.Sizes = append(filter.Sizes, size)
			}
		}
	}

	if strings.TrimSpace(query.MinPrice) != "" || strings.TrimSpace(query.MaxPrice) != "" {
		minPrice := parsePrice(query.MinPrice, defaultMin)
		maxPrice := parsePrice(query.MaxPrice, defaultMax)

		if minPrice.GreaterThan(maxPrice) {
			minPrice, maxPrice = maxPrice, minPrice
		}

		filter.MinPrice = &minPrice
		filter.MaxPrice = &maxPrice
	}

	switch sort := models.SortOrder(strings.TrimSpace(query.Order)); sort {
	case models.SortPriceLowToHigh, models.SortPriceHighToLow, models.SortNewestFirst, models.SortOldestFirst:
		filter.Sort = sort
	}

	if page, err := strconv.Atoi(strings.TrimSpace(query.Page)); err == nil && page > 1 {
		filter.Page = page
	}

	return filter
}

func (s *catalogService) ListProducts(ctx context.Context, query models.CatalogQuery) (*models.Page[models.Product], error) {
	return s.list(ctx, NormalizeFilter(query, s.minPrice, s.maxPrice))
}

func (s *catalogService) CategoryProducts(ctx context.Context, categoryID int64, query models.CatalogQuery) (*models.Page[models.Product], error) {

	if _, err := s.categoryRepo.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	filter := NormalizeFilter(query, s.minPrice, s.maxPrice)
	filter.CategoryID = &categoryID

	return s.list(ctx, filter)
}

func (s *catalogService) list(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error) {

	page, err := s.productRepo.ListProducts(ctx, filter, s.pageSize)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return page, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {

	if s.cache != nil {
		var cached []models.Category

		found, err := s.cache.Get(ctx, cache.CategoryListKey, &cached)
		if err != nil {
			slog.Warn("Category cache read failed", slog.String("error", err.Error()))
		} else if found {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	models.SortCategories(categories)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
			slog.Warn("Category cache write failed", slog.String("error", err.Error()))
		}
	}

	return categories, nil
}

func (s *catalogService) GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error) {

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	detail := &models.ProductDetail{Product: product}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		category, err := s.categoryRepo.GetCategoryByID(gctx, product.CategoryID)
		detail.Category = category
		return err
	})

	g.Go(func() error {
		variants, err := s.productRepo.ListVariants(gctx, productID)
		detail.Variants = variants
		return err
	})

	g.Go(func() error {
		images, err := s.productRepo.ListImages(gctx, productID)
		detail.Images = images
		return err
	})

	g.Go(func() error {
		reviews, err := s.reviewRepo.ListRecentByProduct(gctx, productID, recentReviewsLimit)
		detail.Reviews = reviews
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch product details").WithError(err)
	}

	return detail, nil
}
