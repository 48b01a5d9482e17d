package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter, pageSize int) (*models.Page[models.Product], error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error)
	ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateVariant(ctx context.Context, variant *models.ProductVariant) error
	CountProducts(ctx context.Context) (int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `
		SELECT p.id, p.category_id, c.name, p.name, p.code, p.created_at,
		(SELECT MIN(v.unit_price) FROM product_variants v WHERE v.product_id = p.id) AS min_price,
		COALESCE((SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.id LIMIT 1), '') AS image_url
		FROM products p
		JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(dest ...any) error }, product *models.Product) error {
	return row.Scan(&product.ID, &product.CategoryID, &product.CategoryName, &product.Name, &product.Code, &product.CreatedAt, &product.MinPrice, &product.ImageURL)
}

// ListProducts counts the matching products first so the requested page can
// be clamped before the page itself is read.
func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter, pageSize int) (*models.Page[models.Product], error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	preds := PredicatesFor(filter)

	countArgs := &Args{}
	countQuery := `SELECT COUNT(*) FROM products p` + WhereClause(preds, countArgs)

	var total int
	if err := r.DB.QueryRowContext(dbCtx, countQuery, countArgs.Values()...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := models.NewPage[models.Product](filter.Page, pageSize, total)
	if total == 0 {
		return &page, nil
	}

	args := &Args{}
	query := productColumns + WhereClause(preds, args) + OrderByClause(filter.Sort)
	query += " LIMIT " + args.Add(page.PageSize) + " OFFSET " + args.Add(page.Offset())

	rows, err := r.DB.QueryContext(dbCtx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		page.Items = append(page.Items, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &page, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	err := scanProduct(r.DB.QueryRowContext(dbCtx, productColumns+` WHERE p.id = $1`, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, size, material, color, stock_quantity, unit_price, description
		FROM product_variants
		WHERE product_id = $1
		ORDER BY unit_price ASC, id ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	variants := []models.ProductVariant{}

	for rows.Next() {
		var v models.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Material, &v.Color, &v.StockQuantity, &v.UnitPrice, &v.Description); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

func (r *productRepository) ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, product_id, url, alt_text FROM product_images WHERE product_id = $1 ORDER BY id ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}

	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (category_id, name, code)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.CategoryID, product.Name, product.Code).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return mapWriteError("failed to create product", err)
	}

	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE products SET category_id = $1, name = $2, code = $3 WHERE id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, product.CategoryID, product.Name, product.Code, product.ID)
	if err != nil {
		return mapWriteError("failed to update product", err)
	}

	return rowsAffected(result)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("failed to delete product", err)
	}

	return rowsAffected(result)
}

func (r *productRepository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO product_variants (product_id, size, material, color, stock_quantity, unit_price, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.DB.QueryRowContext(dbCtx, query, variant.ProductID, variant.Size, variant.Material, variant.Color, variant.StockQuantity, variant.UnitPrice, variant.Description).Scan(&variant.ID)
	if err != nil {
		return mapWriteError("failed to create variant", err)
	}

	return nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM products`)
}

func count(ctx context.Context, q querier, query string, args ...any) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var n int
	if err := q.QueryRowContext(dbCtx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}

	return n, nil
}

// mapWriteError turns constraint violations into package sentinels.
func mapWriteError(msg string, err error) error {
	switch {
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", msg, ErrReferenced)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
