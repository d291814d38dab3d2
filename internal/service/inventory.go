package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
)

// InventoryLedger owns per-product available stock. Reserve and Release must
// be called inside the transaction of the order operation they belong to, so
// the whole batch commits or rolls back as one unit.
type InventoryLedger struct{}

// Reserve atomically checks and decrements available stock for one product.
// The decrement is a guarded UPDATE (stock_quantity >= quantity), so two
// concurrent reservations can never both pass the check and oversell.
// Returns the product as loaded, for price snapshotting by the caller.
func (InventoryLedger) Reserve(tx *gorm.DB, productID uint, quantity int) (*model.Product, error) {
	if quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	var product model.Product
	if err := forUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product with ID %d not found", productID)
		}
		return nil, apperr.Internal(err, "failed to load product %d", productID)
	}

	if !product.IsActive {
		return nil, apperr.Validation("product %s is not available", product.Name)
	}

	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "failed to reserve stock for product %d", productID)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validation("insufficient stock for %s", product.Name)
	}

	return &product, nil
}

// Release returns previously reserved units to stock. Used as the compensating
// step of order cancellation; callers pass exactly the quantities they reserved.
func (InventoryLedger) Release(tx *gorm.DB, productID uint, quantity int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to release stock for product %d", productID)
	}
	return nil
}
