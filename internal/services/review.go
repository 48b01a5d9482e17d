package service

import (
	"context"
	"errors"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ReviewService interface {
	AddReview(ctx context.Context, userID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error)
}

type reviewService struct {
	repo   repository.ReviewRepository
	policy *bluemonday.Policy
}

func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo, policy: bluemonday.StrictPolicy()}
}

// AddReview appends a review. Comments are stripped of all markup.
func (s *reviewService) AddReview(ctx context.Context, userID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error) {

	if req.Rating < 1 || req.Rating > 5 {
		return nil, appErrors.AddValidationError("rating", "must be between 1 and 5")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(s.policy.Sanitize(req.Comment)),
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to save review").WithError(err)
	}

	return review, nil
}
