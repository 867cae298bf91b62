package models

import "time"

// CartItem is a server-side cart row. Only authenticated customers have them.
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"uniqueIndex:idx_cart_customer_product;not null" json:"customerId"`
	ProductID  uint      `gorm:"uniqueIndex:idx_cart_customer_product;not null" json:"productId"`
	Product    Product   `json:"product"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
