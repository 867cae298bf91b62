package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
)

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

func ParseOrderStatus(s string) (models.OrderStatus, error) {
	switch st := models.OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return st, nil
	default:
		return "", Validationf("invalid order status %q", s)
	}
}

func ParsePaymentStatus(s string) (models.PaymentStatus, error) {
	switch st := models.PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return st, nil
	default:
		return "", Validationf("invalid payment status %q", s)
	}
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func GetOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, dbError(err, "order not found")
	}
	return &order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling puts the ordered
// quantities back into stock.
func UpdateOrderStatus(db *gorm.DB, orderID uint, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return dbError(err, "order not found")
		}
		if order.Status == status {
			return nil
		}
		if !CanTransition(order.Status, status) {
			return Validationf("order %d cannot move from %s to %s", order.ID, order.Status, status)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", status)
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return Conflictf("order %d was modified concurrently, reload and try again", order.ID)
		}

		if status == models.OrderStatusCancelled {
			for _, item := range order.Items {
				err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					Updates(map[string]any{
						"stock": gorm.Expr("stock + ?", item.Quantity),
						"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
							models.ProductStatusOutOfStock, models.ProductStatusActive),
					}).Error
				if err != nil {
					return Internal(err)
				}
			}
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, Internal(err)
	}
	return &order, nil
}

func UpdatePaymentStatus(db *gorm.DB, orderID uint, status models.PaymentStatus) error {
	res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("payment_status", status)
	if res.Error != nil {
		return Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("order not found")
	}
	return nil
}

// DeleteOrder removes an order and its items. Items go first.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return Internal(db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return Internal(err)
		}
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundf("order not found")
		}
		return nil
	}))
}

type OrderQuery struct {
	Page       int
	Limit      int
	Sort       string
	Status     models.OrderStatus
	CustomerID *uint
	Search     string
}

type Page struct {
	Total        int64 `json:"total"`
	CurrentPage  int   `json:"currentPage"`
	Limit        int   `json:"limit"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	PreviousPage int   `json:"previousPage"`
	NextPage     int   `json:"nextPage"`
}

func NewPage(total int64, page, limit int) Page {
	return Page{
		Total:        total,
		CurrentPage:  page,
		Limit:        limit,
		HasPrevPage:  page > 1,
		HasNextPage:  int64(page*limit) < total,
		PreviousPage: page - 1,
		NextPage:     page + 1,
	}
}

func (q *OrderQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 15
	}
	if q.Sort != "asc" {
		q.Sort = "desc"
	}
}

func ListOrders(db *gorm.DB, q OrderQuery) ([]models.Order, Page, error) {
	q.normalize()
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.Status != "" {
			tx = tx.Where("status = ?", q.Status)
		}
		if q.CustomerID != nil {
			tx = tx.Where("customer_id = ?", *q.CustomerID)
		}
		if q.Search != "" {
			like := "%" + q.Search + "%"
			tx = tx.Where("(order_ref LIKE ? OR email LIKE ? OR contact_name LIKE ?)", like, like, like)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Order{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, Page{}, Internal(err)
	}

	var orders []models.Order
	err := db.Scopes(filter).Preload("Items").
		Order("created_at " + q.Sort).Order("id " + q.Sort).
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, Page{}, Internal(err)
	}
	return orders, NewPage(total, q.Page, q.Limit), nil
}
