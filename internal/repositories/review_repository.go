package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error)
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

// CreateReview returns ErrNotFound when the product does not exist.
func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, review.ProductID, review.UserID, review.Rating, review.Comment).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}

	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	return reviews, rows.Err()
}
