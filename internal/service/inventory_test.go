package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
)

func TestInventoryReserve(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	product := seedProduct(t, db, "Whey Protein", 29.99, 10, true)

	loaded, err := ledger.Reserve(db, product.ID, 4)
	require.NoError(t, err)
	require.Equal(t, product.ID, loaded.ID)
	require.Equal(t, 29.99, loaded.Price)
	require.Equal(t, 6, productStock(t, db, product.ID))
}

func TestInventoryReserveInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	product := seedProduct(t, db, "Creatine", 15.0, 2, true)

	_, err := ledger.Reserve(db, product.ID, 3)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// failed reservation must not touch stock
	require.Equal(t, 2, productStock(t, db, product.ID))
}

func TestInventoryReserveInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	product := seedProduct(t, db, "Discontinued Bar", 5.0, 50, false)

	_, err := ledger.Reserve(db, product.ID, 1)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, 50, productStock(t, db, product.ID))
}

func TestInventoryReserveUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	_, err := ledger.Reserve(db, 9999, 1)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestInventoryReserveRejectsZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	product := seedProduct(t, db, "Shaker", 9.0, 10, true)

	_, err := ledger.Reserve(db, product.ID, 0)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestInventoryRelease(t *testing.T) {
	db := newTestDB(t)
	ledger := InventoryLedger{}

	product := seedProduct(t, db, "Vitamin D", 12.5, 5, true)

	_, err := ledger.Reserve(db, product.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 0, productStock(t, db, product.ID))

	require.NoError(t, ledger.Release(db, product.ID, 5))
	require.Equal(t, 5, productStock(t, db, product.ID))
}
