package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/freezy-bites-api/models"
)

func TestInventorySummary(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "OUT-1", "Out one", "5.00", 0, 2)
	seedProduct(t, db, "LOW-1", "Low one", "2.50", 2, 2)
	seedProduct(t, db, "LOW-2", "Low two", "1.00", 1, 5)
	seedProduct(t, db, "IN-1", "In one", "3.00", 10, 2)
	gone := seedProduct(t, db, "DEL-1", "Deleted", "100.00", 50, 0)
	require.NoError(t, db.Model(&gone).Update("status", models.ProductStatusDeleted).Error)

	summary, err := InventorySummaryOf(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.OutOfStock)
	assert.Equal(t, int64(2), summary.LowStock)
	assert.Equal(t, int64(1), summary.InStock)
	// 2*2.50 + 1*1.00 + 10*3.00
	assert.True(t, summary.TotalValue.Equal(dec("36.00")), summary.TotalValue.String())
}

func TestInventorySummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	summary, err := InventorySummaryOf(db)
	require.NoError(t, err)
	assert.Zero(t, summary.OutOfStock+summary.LowStock+summary.InStock)
	assert.True(t, summary.TotalValue.IsZero())
}

func TestListInventoryBuckets(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "OUT-1", "Out one", "5.00", 0, 2)
	seedProduct(t, db, "LOW-1", "Low one", "2.50", 2, 2)
	seedProduct(t, db, "IN-1", "In one", "3.00", 10, 2)

	tests := []struct {
		bucket StockBucket
		skus   []string
	}{
		{BucketOutOfStock, []string{"OUT-1"}},
		{BucketLowStock, []string{"LOW-1"}},
		{BucketInStock, []string{"IN-1"}},
		{"", []string{"OUT-1", "LOW-1", "IN-1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.bucket), func(t *testing.T) {
			products, err := ListInventory(db, tt.bucket)
			require.NoError(t, err)
			var skus []string
			for _, p := range products {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tt.skus, skus)
		})
	}
}

func TestParseStockBucket(t *testing.T) {
	b, err := ParseStockBucket("low_stock")
	require.NoError(t, err)
	assert.Equal(t, BucketLowStock, b)

	b, err = ParseStockBucket("")
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = ParseStockBucket("plenty")
	requireKind(t, err, KindValidation)
}

func TestSetStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "SET-1", "Set", "1.00", 3, 0)

	updated, err := SetStock(db, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, models.ProductStatusOutOfStock, updated.Status)

	updated, err = SetStock(db, p.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, models.ProductStatusActive, updated.Status)

	_, err = SetStock(db, p.ID, -1)
	requireKind(t, err, KindValidation)

	_, err = SetStock(db, 404, 1)
	requireKind(t, err, KindNotFound)
}

func TestAdjustStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "ADJ-1", "Adjust", "1.00", 3, 0)

	updated, err := AdjustStock(db, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	updated, err = AdjustStock(db, p.ID, -8)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, models.ProductStatusOutOfStock, updated.Status)

	_, err = AdjustStock(db, p.ID, -1)
	requireKind(t, err, KindConflict)
	assert.Equal(t, 0, reloadProduct(t, db, p.ID).Stock)

	updated, err = AdjustStock(db, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusActive, updated.Status)
}
