package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content is an editable website section (hero banner, about page, faq...).
type Content struct {
	gorm.Model
	Key   string         `json:"key" gorm:"uniqueIndex;size:100;not null"`
	Title string         `json:"title" gorm:"size:255"`
	Body  datatypes.JSON `json:"body"`
}
