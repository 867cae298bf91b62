package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type customerStatusInput struct {
	Status models.CustomerStatus `json:"status" binding:"required,oneof=active inactive blocked"`
}

func GetCustomers(ctx *gin.Context) {
	page, limit := parsePage(ctx, 25)

	query := initializers.DB.Model(&models.Customer{})
	if search := ctx.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("(email LIKE ? OR name LIKE ? OR phone LIKE ?)", like, like, like)
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	var customers []models.Customer
	if err := query.Order("total_spent DESC, id ASC").Limit(limit).Offset((page - 1) * limit).Find(&customers).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"customers": customers, "metadata": services.NewPage(count, page, limit)})
}

// GetCustomer answers the customer with their five most recent orders.
func GetCustomer(ctx *gin.Context) {
	customerId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var customer models.Customer
	if err := initializers.DB.First(&customer, customerId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Customer not found")
		return
	}

	orders, _, err := services.ListOrders(initializers.DB, services.OrderQuery{Limit: 5, CustomerID: &customer.ID})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"customer": customer, "recentOrders": orders})
}

func UpdateCustomerStatus(ctx *gin.Context) {
	customerId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input customerStatusInput
	if !bindJSON(ctx, &input) {
		return
	}

	result := initializers.DB.Model(&models.Customer{}).Where("id = ?", customerId).Update("status", input.Status)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Customer not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Customer status updated", "status": input.Status})
}
