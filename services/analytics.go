package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
)

type SalesSummary struct {
	Since             time.Time                    `json:"since"`
	Orders            int64                        `json:"orders"`
	Revenue           decimal.Decimal              `json:"revenue"`
	AverageOrderValue decimal.Decimal              `json:"averageOrderValue"`
	ByStatus          map[models.OrderStatus]int64 `json:"byStatus"`
}

type ProductSales struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	UnitsSold   int64           `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DailyRevenue struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesSummaryOf aggregates orders placed since the given time. Cancelled orders count
// towards ByStatus only.
func SalesSummaryOf(db *gorm.DB, since time.Time) (SalesSummary, error) {
	summary := SalesSummary{Since: since, ByStatus: map[models.OrderStatus]int64{}}

	var rows []struct {
		Status  models.OrderStatus
		Orders  int64
		Revenue decimal.Decimal
	}
	err := db.Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return summary, Internal(err)
	}

	summary.Revenue = decimal.Zero
	for _, r := range rows {
		summary.ByStatus[r.Status] = r.Orders
		if r.Status == models.OrderStatusCancelled {
			continue
		}
		summary.Orders += r.Orders
		summary.Revenue = summary.Revenue.Add(r.Revenue)
	}
	summary.Revenue = summary.Revenue.Round(2)
	summary.AverageOrderValue = decimal.Zero
	if summary.Orders > 0 {
		summary.AverageOrderValue = summary.Revenue.Div(decimal.NewFromInt(summary.Orders)).Round(2)
	}
	return summary, nil
}

// TopProducts ranks products by units sold in non-cancelled orders.
func TopProducts(db *gorm.DB, limit int) ([]ProductSales, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	var out []ProductSales
	err := db.Model(&models.OrderItem{}).
		Select(`order_items.product_id AS product_id,
			MAX(order_items.product_name) AS product_name,
			MAX(order_items.sku) AS sku,
			SUM(order_items.quantity) AS units_sold,
			SUM(order_items.quantity * order_items.price_at_purchase) AS revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("units_sold DESC, order_items.product_id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, Internal(err)
	}
	for i := range out {
		out[i].Revenue = out[i].Revenue.Round(2)
	}
	return out, nil
}

// DailyRevenueOf returns one row per day with orders over the last days days.
func DailyRevenueOf(db *gorm.DB, days int) ([]DailyRevenue, error) {
	if days < 1 || days > 366 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	var out []DailyRevenue
	err := db.Model(&models.Order{}).
		Select("CAST(DATE(created_at) AS CHAR) AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, models.OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("day").
		Scan(&out).Error
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}
