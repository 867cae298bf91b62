package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
)

type StockBucket string

const (
	BucketOutOfStock StockBucket = "out_of_stock"
	BucketLowStock   StockBucket = "low_stock"
	BucketInStock    StockBucket = "in_stock"
)

func ParseStockBucket(s string) (StockBucket, error) {
	switch b := StockBucket(s); b {
	case "", BucketOutOfStock, BucketLowStock, BucketInStock:
		return b, nil
	default:
		return "", Validationf("unknown stock filter %q, expected one of out_of_stock, low_stock, in_stock", s)
	}
}

// InventorySummary is computed from the product rows on every call.
type InventorySummary struct {
	OutOfStock int64           `json:"outOfStock"`
	LowStock   int64           `json:"lowStock"`
	InStock    int64           `json:"inStock"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

func InventorySummaryOf(db *gorm.DB) (InventorySummary, error) {
	var row struct {
		OutOfStock int64
		LowStock   int64
		InStock    int64
		TotalValue decimal.Decimal
	}
	err := db.Model(&models.Product{}).
		Select(`COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN stock > 0 AND stock <= min_stock THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN stock > min_stock THEN 1 ELSE 0 END), 0) AS in_stock,
			COALESCE(SUM(price * stock), 0) AS total_value`).
		Where("status <> ?", models.ProductStatusDeleted).
		Scan(&row).Error
	if err != nil {
		return InventorySummary{}, Internal(err)
	}
	return InventorySummary{
		OutOfStock: row.OutOfStock,
		LowStock:   row.LowStock,
		InStock:    row.InStock,
		TotalValue: row.TotalValue.Round(2),
	}, nil
}

// bucketScope restricts a product query to one stock bucket. An empty bucket matches all.
func bucketScope(bucket StockBucket) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch bucket {
		case BucketOutOfStock:
			return db.Where("stock = 0")
		case BucketLowStock:
			return db.Where("stock > 0 AND stock <= min_stock")
		case BucketInStock:
			return db.Where("stock > min_stock")
		}
		return db
	}
}

func ListInventory(db *gorm.DB, bucket StockBucket) ([]models.Product, error) {
	var products []models.Product
	err := db.Scopes(bucketScope(bucket)).
		Where("status <> ?", models.ProductStatusDeleted).
		Order("stock ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, Internal(err)
	}
	return products, nil
}

// SetStock overwrites the stock count, as after a physical count.
func SetStock(db *gorm.DB, productID uint, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, Validationf("stock cannot be negative")
	}
	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status <> ?", models.ProductStatusDeleted).First(&product, productID).Error; err != nil {
			return dbError(err, "product not found")
		}
		if err := tx.Model(&product).Updates(map[string]any{
			"stock":  stock,
			"status": statusForStock(product.Status, stock),
		}).Error; err != nil {
			return Internal(err)
		}
		return tx.First(&product, productID).Error
	})
	if err != nil {
		return nil, Internal(err)
	}
	return &product, nil
}

// AdjustStock adds delta (which may be negative) relative to the stored stock and refuses
// adjustments that would leave it below zero.
func AdjustStock(db *gorm.DB, productID uint, delta int) (*models.Product, error) {
	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status <> ?", models.ProductStatusDeleted).First(&product, productID).Error; err != nil {
			return dbError(err, "product not found")
		}
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock + ? >= 0", productID, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return Conflictf("cannot remove %d units from %s, only %d in stock", -delta, product.Name, product.Stock)
		}
		if err := tx.First(&product, productID).Error; err != nil {
			return Internal(err)
		}
		if status := statusForStock(product.Status, product.Stock); status != product.Status {
			if err := tx.Model(&product).Update("status", status).Error; err != nil {
				return Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, Internal(err)
	}
	return &product, nil
}

func statusForStock(current models.ProductStatus, stock int) models.ProductStatus {
	switch {
	case current == models.ProductStatusDeleted:
		return current
	case stock == 0:
		return models.ProductStatusOutOfStock
	default:
		return models.ProductStatusActive
	}
}
