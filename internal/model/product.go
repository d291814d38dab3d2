package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. StockQuantity is owned by the inventory
// ledger; Rating and TotalReviews are owned by the rating aggregator and always
// equal the mean/count over the product's reviews.
type Product struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	Name            string         `json:"name" gorm:"type:varchar(200);not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Category        string         `json:"category" gorm:"type:varchar(50);index"`
	Price           float64        `json:"price" gorm:"not null"`
	StockQuantity   int            `json:"stock_quantity" gorm:"default:0"`
	ImageURL        string         `json:"image_url" gorm:"type:varchar(500)"`
	Ingredients     string         `json:"ingredients" gorm:"type:text"`
	NutritionalInfo string         `json:"nutritional_info" gorm:"type:text"`
	Rating          float64        `json:"rating" gorm:"default:0"`
	TotalReviews    int            `json:"total_reviews" gorm:"default:0"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductReview is a user's rating of a product. At most one review per
// (product, user) pair.
type ProductReview struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	ProductID  uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_product_reviewer"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_product_reviewer"`
	Rating     int       `json:"rating" gorm:"not null"`
	ReviewText string    `json:"review_text" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
