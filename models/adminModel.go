package models

import "gorm.io/gorm"

type Admin struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name     string `json:"name" gorm:"size:255"`
	Password string `json:"-" gorm:"size:255;not null"`
	Role     string `json:"role" gorm:"size:20;not null;default:admin"`
}
