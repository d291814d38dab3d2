package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "fitlife_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int, active bool) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Category:      "supplements",
		Price:         price,
		StockQuantity: stock,
		IsActive:      active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Role:           role,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedConsultant(t *testing.T, db *gorm.DB, user *model.User, available bool) *model.Consultant {
	t.Helper()
	consultant := &model.Consultant{
		UserID:         user.ID,
		Specialization: "dietitian",
		HourlyRate:     50,
		IsAvailable:    available,
	}
	require.NoError(t, db.Create(consultant).Error)
	return consultant
}

func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product model.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.StockQuantity
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
