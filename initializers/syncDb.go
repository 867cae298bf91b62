package initializers

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
)

func SyncDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Employee{},
		&models.Offer{},
		&models.Message{},
		&models.Content{},
		&models.Admin{},
	)
	if err != nil {
		return err
	}
	slog.Info("database synced successfully")
	return nil
}
