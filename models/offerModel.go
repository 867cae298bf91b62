package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Offer struct {
	gorm.Model
	Title           string         `json:"title" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Code            string         `json:"code" gorm:"uniqueIndex;size:64;not null"`
	DiscountPercent int            `json:"discountPercent" gorm:"not null"`
	ProductIDs      datatypes.JSON `json:"productIds"`
	StartsAt        time.Time      `json:"startsAt"`
	EndsAt          time.Time      `json:"endsAt"`
	Active          bool           `json:"active" gorm:"not null;default:true"`
}

func (o Offer) LiveAt(t time.Time) bool {
	return o.Active && !t.Before(o.StartsAt) && t.Before(o.EndsAt)
}
