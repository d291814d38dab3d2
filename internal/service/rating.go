package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
)

// RatingAggregator recomputes derived rating summaries from their underlying
// detail records. Full recomputation on every write keeps the aggregate
// self-correcting; it must run inside the transaction of the triggering write,
// after the owning row has been locked, so concurrent submissions cannot
// interleave read-then-write of the counters.
type RatingAggregator struct{}

type ratingStats struct {
	Count int64
	Avg   float64
}

// RecomputeConsultant sets the consultant's rating to the mean of all non-null
// consultation ratings and total_consultations to their count (0 / 0.0 if none).
func (RatingAggregator) RecomputeConsultant(tx *gorm.DB, consultantID uint) error {
	var consultant model.Consultant
	if err := forUpdate(tx).First(&consultant, consultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("consultant with ID %d not found", consultantID)
		}
		return apperr.Internal(err, "failed to load consultant %d", consultantID)
	}

	var stats ratingStats
	err := tx.Model(&model.Consultation{}).
		Where("consultant_id = ? AND rating IS NOT NULL", consultantID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Scan(&stats).Error
	if err != nil {
		return apperr.Internal(err, "failed to aggregate consultation ratings for consultant %d", consultantID)
	}

	updates := map[string]any{
		"rating":              stats.Avg,
		"total_consultations": stats.Count,
	}
	if err := tx.Model(&model.Consultant{}).Where("id = ?", consultantID).Updates(updates).Error; err != nil {
		return apperr.Internal(err, "failed to update consultant %d rating", consultantID)
	}
	return nil
}

// RecomputeProduct sets the product's rating to the mean over its reviews and
// total_reviews to their count (0 / 0.0 if none remain).
func (RatingAggregator) RecomputeProduct(tx *gorm.DB, productID uint) error {
	var product model.Product
	if err := forUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product with ID %d not found", productID)
		}
		return apperr.Internal(err, "failed to load product %d", productID)
	}

	var stats ratingStats
	err := tx.Model(&model.ProductReview{}).
		Where("product_id = ?", productID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Scan(&stats).Error
	if err != nil {
		return apperr.Internal(err, "failed to aggregate reviews for product %d", productID)
	}

	updates := map[string]any{
		"rating":        stats.Avg,
		"total_reviews": stats.Count,
	}
	if err := tx.Model(&model.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
		return apperr.Internal(err, "failed to update product %d rating", productID)
	}
	return nil
}
