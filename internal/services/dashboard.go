package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const dashboardPageSize = 20

// DashboardService backs the admin pages. Callers must have checked the
// admin role already.
type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	ListProducts(ctx context.Context, page int) (*models.Page[models.Product], error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateVariant(ctx context.Context, productID int64, req *models.CreateVariantRequest) (*models.ProductVariant, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
	cache        cache.Cache
}

func NewDashboardService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, orderRepo repository.OrderRepository, c cache.Cache) DashboardService {
	return &dashboardService{productRepo: productRepo, categoryRepo: categoryRepo, orderRepo: orderRepo, cache: c}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {

	summary := &models.DashboardSummary{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary.ProductCount, err = s.productRepo.CountProducts(gctx)
		return err
	})

	g.Go(func() (err error) {
		summary.CategoryCount, err = s.categoryRepo.CountCategories(gctx)
		return err
	})

	g.Go(func() (err error) {
		summary.OrderCount, err = s.orderRepo.CountOrders(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, appErrors.DatabaseError("Failed to load dashboard").WithError(err)
	}

	return summary, nil
}

func (s *dashboardService) ListProducts(ctx context.Context, page int) (*models.Page[models.Product], error) {

	filter := models.ProductFilter{Sort: models.SortNewestFirst, Page: page}

	products, err := s.productRepo.ListProducts(ctx, filter, dashboardPageSize)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func productWriteError(err error, fallback string) *appErrors.AppError {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.DuplicateEntryError("Product code already exists").WithError(err)
	case errors.Is(err, repository.ErrReferenced):
		return appErrors.NotFoundError("Category not found").WithError(err)
	default:
		return appErrors.DatabaseError(fallback).WithError(err)
	}
}

func (s *dashboardService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		CategoryID: req.CategoryID,
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to create product")
	}

	return product, nil
}

func (s *dashboardService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, productWriteError(err, "Failed to fetch product")
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}

	if req.Code != nil {
		product.Code = strings.TrimSpace(*req.Code)
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to update product")
	}

	return product, nil
}

// DeleteProduct refuses products whose variants appear on placed orders.
func (s *dashboardService) DeleteProduct(ctx context.Context, id int64) error {

	err := s.productRepo.DeleteProduct(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, repository.ErrReferenced):
		return appErrors.ConflictError("Product has been ordered and cannot be deleted").WithError(err)
	default:
		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}
}

func (s *dashboardService) CreateVariant(ctx context.Context, productID int64, req *models.CreateVariantRequest) (*models.ProductVariant, error) {

	if !req.Size.Valid() {
		return nil, appErrors.AddValidationError("size", "must be one of XS, S, M, L, XL")
	}

	if req.UnitPrice.IsNegative() {
		return nil, appErrors.AddValidationError("unit_price", "must not be negative")
	}

	variant := &models.ProductVariant{
		ProductID:     productID,
		Size:          req.Size,
		Material:      strings.TrimSpace(req.Material),
		Color:         strings.TrimSpace(req.Color),
		StockQuantity: req.StockQuantity,
		UnitPrice:     req.UnitPrice.Round(2),
		Description:   strings.TrimSpace(req.Description),
	}

	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to create variant").WithError(err)
	}

	return variant, nil
}

func (s *dashboardService) ListCategories(ctx context.Context) ([]models.Category, error) {

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *dashboardService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {

	category := &models.Category{Name: strings.TrimSpace(req.Name)}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.DuplicateEntryError("Category already exists").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to create category").WithError(err)
	}

	s.invalidateCategories(ctx)

	return category, nil
}

func (s *dashboardService) UpdateCategory(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error) {

	existing, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	if existing.Name == models.OthersCategory {
		return nil, appErrors.BadRequestError("The Others category cannot be renamed")
	}

	existing.Name = strings.TrimSpace(req.Name)

	if err := s.categoryRepo.UpdateCategory(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.DuplicateEntryError("Category already exists").WithError(err)
		default:
			return nil, appErrors.DatabaseError("Failed to update category").WithError(err)
		}
	}

	s.invalidateCategories(ctx)

	return existing, nil
}

func (s *dashboardService) DeleteCategory(ctx context.Context, id int64) error {

	existing, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Category not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	if existing.Name == models.OthersCategory {
		return appErrors.BadRequestError("The Others category cannot be deleted")
	}

	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return appErrors.NotFoundError("Category not found").WithError(err)
		case errors.Is(err, repository.ErrReferenced):
			return appErrors.ConflictError("Category still has products").WithError(err)
		default:
			return appErrors.DatabaseError("Failed to delete category").WithError(err)
		}
	}

	s.invalidateCategories(ctx)

	return nil
}

func (s *dashboardService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.CategoryListKey); err != nil {
		slog.Warn("Category cache invalidation failed", slog.String("error", err.Error()))
	}
}
