package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	gorm.Model
	Name    string          `json:"name" gorm:"size:255;not null"`
	Email   string          `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Phone   string          `json:"phone" gorm:"size:50"`
	Role    string          `json:"role" gorm:"size:100"`
	Salary  decimal.Decimal `json:"salary" gorm:"type:decimal(12,2);not null;default:0"`
	HiredAt time.Time       `json:"hiredAt"`
	Status  string          `json:"status" gorm:"size:20;not null;default:active"`
}
