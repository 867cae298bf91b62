package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
	"github.com/Kariqs/freezy-bites-api/utils"
)

type productInput struct {
	SKU         string           `json:"sku" binding:"required,max=64,sku"`
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	Category    string           `json:"category" binding:"max=100"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
	MinStock    int              `json:"minStock" binding:"min=0"`
	ImageUrl    string           `json:"imageUrl" binding:"omitempty,url,max=512"`
}

type productUpdateInput struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"minStock" binding:"omitempty,min=0"`
	ImageUrl    *string          `json:"imageUrl" binding:"omitempty,max=512"`
}

type stockInput struct {
	Stock  *int `json:"stock" binding:"required_without=Adjust,omitempty,min=0"`
	Adjust *int `json:"adjust" binding:"required_without=Stock"`
}

func storefrontProducts(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []models.ProductStatus{models.ProductStatusActive, models.ProductStatusOutOfStock})
}

func CreateProduct(ctx *gin.Context) {
	var input productInput
	if !bindJSON(ctx, &input) {
		return
	}
	if msg := validateMoney("price", *input.Price); msg != "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msg)
		return
	}

	product := models.Product{
		SKU:         input.SKU,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Price:       *input.Price,
		Stock:       *input.Stock,
		MinStock:    input.MinStock,
		ImageUrl:    input.ImageUrl,
		Status:      models.ProductStatusActive,
	}
	if product.Stock == 0 {
		product.Status = models.ProductStatusOutOfStock
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, fmt.Sprintf("a product with sku %s already exists", product.SKU))
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"product": product})
}

// GetProducts lists the storefront catalog with search, category filter and pagination.
func GetProducts(ctx *gin.Context) {
	page, limit := parsePage(ctx, 12)

	query := initializers.DB.Model(&models.Product{}).Scopes(storefrontProducts)
	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}

	var products []models.Product
	if err := query.Order("name").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": products,
		"metadata": services.NewPage(count, page, limit),
	})
}

func GetProduct(ctx *gin.Context) {
	productId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := initializers.DB.Scopes(storefrontProducts).First(&product, productId).Error; err != nil {
		respondWithServiceError(ctx, services.NotFoundf("Product not found"))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"product": product})
}

// AdminGetProducts lists every product including soft-deleted ones, optionally by status.
func AdminGetProducts(ctx *gin.Context) {
	page, limit := parsePage(ctx, 25)

	query := initializers.DB.Model(&models.Product{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := ctx.Query("search"); search != "" {
		query = query.Where("(name LIKE ? OR sku LIKE ?)", "%"+search+"%", "%"+search+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	var products []models.Product
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"products": products, "metadata": services.NewPage(count, page, limit)})
}

func UpdateProduct(ctx *gin.Context) {
	productId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input productUpdateInput
	if !bindJSON(ctx, &input) {
		return
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if msg := validateMoney("price", *input.Price); msg != "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msg)
			return
		}
		updates["price"] = *input.Price
	}
	if input.MinStock != nil {
		updates["min_stock"] = *input.MinStock
	}
	if input.ImageUrl != nil {
		updates["image_url"] = *input.ImageUrl
	}
	if len(updates) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "nothing to update")
		return
	}

	result := initializers.DB.Model(&models.Product{}).
		Where("id = ? AND status <> ?", productId, models.ProductStatusDeleted).
		Updates(updates)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"product": product})
}

// DeleteProduct marks the product deleted. Order history keeps referencing the row.
func DeleteProduct(ctx *gin.Context) {
	productId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND status <> ?", productId, models.ProductStatusDeleted).
			Update("status", models.ProductStatusDeleted)
		if result.Error != nil {
			return services.Internal(result.Error)
		}
		if result.RowsAffected == 0 {
			return services.NotFoundf("Product not found")
		}
		return tx.Where("product_id = ?", productId).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

func UpdateProductStock(ctx *gin.Context) {
	productId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input stockInput
	if !bindJSON(ctx, &input) {
		return
	}

	var (
		product *models.Product
		err     error
	)
	if input.Stock != nil {
		product, err = services.SetStock(initializers.DB, productId, *input.Stock)
	} else {
		product, err = services.AdjustStock(initializers.DB, productId, *input.Adjust)
	}
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"product": product})
}

// UploadProductImage stores the "image" form file and points the product at it.
func UploadProductImage(ctx *gin.Context) {
	productId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if deps.Images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No image uploaded")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		sendErrorResponse(ctx, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	var product models.Product
	if err := initializers.DB.Where("status <> ?", models.ProductStatusDeleted).First(&product, productId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	defer f.Close()

	suffix, err := utils.GenerateCode(4)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	key := fmt.Sprintf("products/%s-%s-%s%s", product.SKU, time.Now().Format("20060102"), suffix, strings.ToLower(filepath.Ext(file.Filename)))
	url, err := deps.Images.Upload(ctx.Request.Context(), key, contentType, f)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(fmt.Errorf("upload %s: %w", key, err)))
		return
	}

	if err := initializers.DB.Model(&product).Update("image_url", url).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Image uploaded", "url": url})
}
