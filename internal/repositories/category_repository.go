package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CountCategories(ctx context.Context) (int, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

// ListCategories returns categories by name with "Others" last.
func (r *categoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, created_at FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	models.SortCategories(categories)

	return categories, nil
}

func (r *categoryRepository) getOne(ctx context.Context, where string, arg any) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, `SELECT id, name, created_at FROM categories WHERE `+where, arg).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *categoryRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return r.getOne(ctx, `name = $1`, name)
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`

	if err := r.DB.QueryRowContext(dbCtx, query, category.Name).Scan(&category.ID, &category.CreatedAt); err != nil {
		return mapWriteError("failed to create category", err)
	}

	return nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if err != nil {
		return mapWriteError("failed to update category", err)
	}

	return rowsAffected(result)
}

// DeleteCategory fails with ErrReferenced while products still use it.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("failed to delete category", err)
	}

	return rowsAffected(result)
}

func (r *categoryRepository) CountCategories(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM categories`)
}
