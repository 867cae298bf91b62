package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type cartQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

func cartResponse(items []models.CartItem) gin.H {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return gin.H{"items": items, "count": count, "subtotal": subtotal.StringFixed(2)}
}

func GetCart(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	items, err := services.GetCart(initializers.DB, customerID)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(items))
}

func CreateCartItem(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	var line services.LineRequest
	if !bindJSON(ctx, &line) {
		return
	}

	item, err := services.AddToCart(initializers.DB, customerID, line)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Item added to cart", "item": item})
}

func UpdateCartItem(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	productId, ok := parseIDParam(ctx, "productId")
	if !ok {
		return
	}
	var input cartQuantityInput
	if !bindJSON(ctx, &input) {
		return
	}

	item, err := services.SetCartQuantity(initializers.DB, customerID, services.LineRequest{ProductID: productId, Quantity: *input.Quantity})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	if item == nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"item": item})
}

func DeleteCartItem(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	productId, ok := parseIDParam(ctx, "productId")
	if !ok {
		return
	}
	if err := services.RemoveFromCart(initializers.DB, customerID, productId); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func ClearCart(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	if err := services.ClearCart(initializers.DB, customerID); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
