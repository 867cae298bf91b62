package initializers

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

// SeedAdmin creates the first super admin from ADMIN_EMAIL and ADMIN_PASSWORD when no
// admin with that email exists yet.
func SeedAdmin(db *gorm.DB) error {
	email := services.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.Admin
	err := db.Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Admin{
		Email:    email,
		Name:     strings.Split(email, "@")[0],
		Password: hashed,
		Role:     "superadmin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	slog.Info("seeded super admin", "email", email)
	return nil
}
