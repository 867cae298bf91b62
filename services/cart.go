package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/freezy-bites-api/models"
)

func GetCart(db *gorm.DB, customerID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := db.Preload("Product").Where("customer_id = ?", customerID).Order("id").Find(&items).Error; err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func findSellable(db *gorm.DB, ref LineRequest) (*models.Product, error) {
	q := db.Where("status <> ?", models.ProductStatusDeleted)
	if ref.ProductID != 0 {
		q = q.Where("id = ?", ref.ProductID)
	} else {
		q = q.Where("sku = ?", strings.TrimSpace(ref.SKU))
	}
	var p models.Product
	if err := q.Take(&p).Error; err != nil {
		return nil, dbError(err, "product not found: "+ref.label())
	}
	return &p, nil
}

// AddToCart adds quantity to the customer's cart line, creating it when absent.
// Stock is checked again at checkout, not here.
func AddToCart(db *gorm.DB, customerID uint, line LineRequest) (*models.CartItem, error) {
	if err := validateLines([]LineRequest{line}); err != nil {
		return nil, err
	}
	product, err := findSellable(db, line)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{CustomerID: customerID, ProductID: product.ID, Quantity: line.Quantity}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("quantity + ?", line.Quantity),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, Internal(err)
	}
	return cartLine(db, customerID, product.ID)
}

// SetCartQuantity replaces the quantity of a line. Zero removes it.
func SetCartQuantity(db *gorm.DB, customerID uint, line LineRequest) (*models.CartItem, error) {
	if line.Quantity < 0 {
		return nil, Validationf("quantity cannot be negative")
	}
	product, err := findSellable(db, line)
	if err != nil {
		return nil, err
	}
	if line.Quantity == 0 {
		return nil, RemoveFromCart(db, customerID, product.ID)
	}

	item := models.CartItem{CustomerID: customerID, ProductID: product.ID, Quantity: line.Quantity}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, Internal(err)
	}
	return cartLine(db, customerID, product.ID)
}

func RemoveFromCart(db *gorm.DB, customerID, productID uint) error {
	res := db.Where("customer_id = ? AND product_id = ?", customerID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("product %d is not in the cart", productID)
	}
	return nil
}

func ClearCart(db *gorm.DB, customerID uint) error {
	return Internal(db.Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error)
}

func cartLine(db *gorm.DB, customerID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := db.Preload("Product").Where("customer_id = ? AND product_id = ?", customerID, productID).Take(&item).Error
	if err != nil {
		return nil, Internal(err)
	}
	return &item, nil
}
