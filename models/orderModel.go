package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCard           PaymentMethod = "card"
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderRef        string          `gorm:"uniqueIndex;size:64;not null" json:"orderRef"`
	CustomerID      *uint           `gorm:"index" json:"customerId"`
	Customer        *Customer       `json:"customer,omitempty"`
	Email           string          `gorm:"size:191" json:"email"`
	ContactName     string          `gorm:"size:255" json:"contactName"`
	Phone           string          `gorm:"size:50" json:"phone"`
	DeliveryAddress string          `gorm:"size:512" json:"deliveryAddress"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Status          OrderStatus     `gorm:"size:20;not null;default:pending;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PaymentMethod   PaymentMethod   `gorm:"size:30;not null" json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `gorm:"size:20;not null;default:pending" json:"paymentStatus"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem keeps the name, sku and unit price as they were when the order was placed.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"index;not null" json:"orderId"`
	ProductID       uint            `gorm:"index;not null" json:"productId"`
	ProductName     string          `gorm:"size:255" json:"productName"`
	SKU             string          `gorm:"size:64" json:"sku"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"priceAtPurchase"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
