package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
)

// ReviewService owns product review writes. Every mutation recomputes the
// product's rating aggregate inside the same transaction.
type ReviewService struct {
	db      *gorm.DB
	ratings RatingAggregator
	log     *zap.Logger
}

func NewReviewService(db *gorm.DB, log *zap.Logger) *ReviewService {
	return &ReviewService{db: db, log: log}
}

// ReviewInput carries a review submission.
type ReviewInput struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// Create stores a review for the product. A user may review a product at most
// once.
func (s *ReviewService) Create(ctx context.Context, productID, userID uint, in ReviewInput) (*model.ProductReview, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	review := &model.ProductReview{
		ProductID:  productID,
		UserID:     userID,
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := forUpdate(tx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Internal(err, "failed to load product %d", productID)
		}

		var count int64
		if err := tx.Model(&model.ProductReview{}).
			Where("product_id = ? AND user_id = ?", productID, userID).
			Count(&count).Error; err != nil {
			return apperr.Internal(err, "failed to check for existing review")
		}
		if count > 0 {
			return apperr.Validation("you have already reviewed this product")
		}

		if err := tx.Create(review).Error; err != nil {
			return apperr.Internal(err, "failed to persist review")
		}

		return s.ratings.RecomputeProduct(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Product review created",
		zap.Uint("product_id", productID),
		zap.Uint("user_id", userID),
		zap.Int("rating", in.Rating))

	return review, nil
}

// Delete removes the user's review and recomputes the product aggregate over
// the remaining reviews. Administrators may delete any review.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint, actor Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review model.ProductReview
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("review not found")
			}
			return apperr.Internal(err, "failed to load review %d", reviewID)
		}

		if review.UserID != actor.UserID && !actor.isAdmin() {
			return apperr.PermissionDenied("not enough permissions")
		}

		if err := tx.Delete(&model.ProductReview{}, reviewID).Error; err != nil {
			return apperr.Internal(err, "failed to delete review %d", reviewID)
		}

		return s.ratings.RecomputeProduct(tx, review.ProductID)
	})
}
