package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kariqs/freezy-bites-api/models"
)

// newTestDB opens a private in-memory database. A single pooled connection makes
// concurrent transactions run one after another.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Admin{},
	))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, sku, name, price string, stock, minStock int) models.Product {
	t.Helper()
	p := models.Product{
		SKU:      sku,
		Name:     name,
		Price:    dec(price),
		Stock:    stock,
		MinStock: minStock,
		Status:   models.ProductStatusActive,
	}
	if stock == 0 {
		p.Status = models.ProductStatusOutOfStock
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, email, name string) models.Customer {
	t.Helper()
	c := models.Customer{Email: email, Name: name, Status: models.CustomerStatusActive, TotalSpent: decimal.Zero}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
