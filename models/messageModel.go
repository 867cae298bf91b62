package models

import "gorm.io/gorm"

// Message is a contact-form submission from the storefront.
type Message struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:255;not null"`
	Email   string `json:"email" gorm:"size:191;not null"`
	Subject string `json:"subject" gorm:"size:255"`
	Body    string `json:"body" gorm:"type:text;not null"`
	Read    bool   `json:"read" gorm:"not null;default:false"`
}
