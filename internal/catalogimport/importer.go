package catalogimport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type Report struct {
	Imported int
	Skipped  int
	Failed   int
	Total    int
}

func (r Report) String() string {
	return fmt.Sprintf("Successfully imported %d/%d products.", r.Imported, r.Total)
}

type Importer struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Importer{db: db, logger: logger}
}

// Import writes every record inside one transaction. A record that fails
// is rolled back to its savepoint and the rest continue.
func (im *Importer) Import(ctx context.Context, records []Record) (Report, error) {

	report := Report{Total: len(records)}

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {

		name := strings.TrimSpace(record.ProductName)
		logger := im.logger.With(slog.String("product", name))

		if name == "" {
			logger.Warn("Skipping record without a product name")
			report.Skipped++
			continue
		}

		price, err := CleanPrice(record.ProductPrice)
		if err != nil {
			logger.Warn("Skipping record", slog.String("error", err.Error()))
			report.Skipped++
			continue
		}

		if _, err := tx.ExecContext(ctx, `SAVEPOINT import_product`); err != nil {
			return report, fmt.Errorf("failed to create savepoint: %w", err)
		}

		category, err := im.importOne(ctx, tx, name, price, record)
		if err != nil {
			logger.Error("Failed to process product", slog.String("error", err.Error()))
			if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT import_product`); rbErr != nil {
				return report, fmt.Errorf("failed to roll back savepoint: %w", rbErr)
			}
			report.Failed++
			continue
		}

		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT import_product`); err != nil {
			return report, fmt.Errorf("failed to release savepoint: %w", err)
		}

		logger.Info("Product imported", slog.String("category", category))
		report.Imported++
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("failed to commit import: %w", err)
	}

	return report, nil
}

func (im *Importer) importOne(ctx context.Context, tx *sql.Tx, name string, price decimal.Decimal, record Record) (string, error) {

	categoryName := CategoryFor(name)

	var categoryID int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, categoryName,
	).Scan(&categoryID)
	if err != nil {
		return "", fmt.Errorf("category %q: %w", categoryName, err)
	}

	productID, err := upsertProduct(ctx, tx, name, categoryID)
	if err != nil {
		return "", err
	}

	variant := models.ProductVariant{
		ProductID:     productID,
		Size:          DefaultSize,
		Material:      MaterialFor(record.ProductInfo),
		Color:         colorFor(record.ProductInfo),
		StockQuantity: DefaultStock,
		UnitPrice:     price,
		Description:   strings.Join(record.ProductInfo, "\n"),
	}
	if err := upsertDefaultVariant(ctx, tx, &variant); err != nil {
		return "", err
	}

	for i, url := range record.ProductImages {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		alt := truncate(fmt.Sprintf("%s - Image %d", name, i+1), 255)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, url, alt_text) VALUES ($1, $2, $3)
			ON CONFLICT (url) DO UPDATE SET product_id = EXCLUDED.product_id, alt_text = EXCLUDED.alt_text`,
			productID, url, alt,
		)
		if err != nil {
			return "", fmt.Errorf("image %q: %w", url, err)
		}
	}

	return categoryName, nil
}

func upsertProduct(ctx context.Context, tx *sql.Tx, name string, categoryID int64) (int64, error) {

	var productID int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&productID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`INSERT INTO products (category_id, name, code) VALUES ($1, $2, $3) RETURNING id`,
			categoryID, truncate(name, 255), codeFor(name),
		).Scan(&productID)
		if err != nil {
			return 0, fmt.Errorf("insert product: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("find product: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE products SET category_id = $1 WHERE id = $2`, categoryID, productID); err != nil {
			return 0, fmt.Errorf("update product: %w", err)
		}
	}

	return productID, nil
}

func upsertDefaultVariant(ctx context.Context, tx *sql.Tx, v *models.ProductVariant) error {

	err := tx.QueryRowContext(ctx,
		`SELECT id FROM product_variants WHERE product_id = $1 AND size = $2 ORDER BY id LIMIT 1`,
		v.ProductID, v.Size,
	).Scan(&v.ID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`INSERT INTO product_variants (product_id, size, material, color, stock_quantity, unit_price, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			v.ProductID, v.Size, v.Material, v.Color, v.StockQuantity, v.UnitPrice, v.Description,
		).Scan(&v.ID)
		if err != nil {
			return fmt.Errorf("insert variant: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find variant: %w", err)
	default:
		_, err := tx.ExecContext(ctx,
			`UPDATE product_variants
			SET material = $1, color = $2, stock_quantity = $3, unit_price = $4, description = $5
			WHERE id = $6`,
			v.Material, v.Color, v.StockQuantity, v.UnitPrice, v.Description, v.ID,
		)
		if err != nil {
			return fmt.Errorf("update variant: %w", err)
		}
	}

	return nil
}
