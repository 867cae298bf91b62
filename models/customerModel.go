package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusBlocked  CustomerStatus = "blocked"
)

// Customer is both the storefront account and the record guest checkouts are upserted into.
// Guest-only customers have an empty Password. A signup waiting for email confirmation
// keeps its hash in PendingPassword until the activation token is used.
type Customer struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	Email                  string          `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name                   string          `gorm:"size:255" json:"name"`
	Phone                  string          `gorm:"size:50" json:"phone"`
	Address                string          `gorm:"size:512" json:"address"`
	Password               string          `gorm:"size:255" json:"-"`
	PendingPassword        string          `gorm:"size:255" json:"-"`
	ActivationToken        string          `gorm:"size:64;index" json:"-"`
	PasswordResetToken     string          `gorm:"size:64;index" json:"-"`
	PasswordResetExpiresAt *time.Time      `json:"-"`
	TotalOrders            int             `gorm:"not null;default:0" json:"totalOrders"`
	TotalSpent             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"totalSpent"`
	Status                 CustomerStatus  `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// Activated reports whether the customer has a confirmed password.
func (c Customer) Activated() bool {
	return c.Password != ""
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
