package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

const msgOrderPlaced = "Order placed successfully."

// CheckoutRequest is the body of POST /checkout. Signed-in customers send at most the
// payment method and notes; guests send the items and their contact details.
type CheckoutRequest struct {
	Items         []services.LineRequest `json:"items" binding:"omitempty,dive"`
	Guest         *services.GuestContact `json:"guest"`
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" binding:"omitempty,oneof=cash_on_delivery card"`
	Notes         string                 `json:"notes" binding:"max=1000"`
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

func Checkout(ctx *gin.Context) {
	var input CheckoutRequest
	// a signed-in checkout may come without a body
	if err := ctx.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		sendErrorResponse(ctx, http.StatusBadRequest, bindingMessage(err))
		return
	}

	in := services.PlaceOrderInput{
		Items:         input.Items,
		Guest:         input.Guest,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	if customerID, ok := middlewares.CurrentCustomerID(ctx); ok {
		in.CustomerID = &customerID
	}

	result, err := services.PlaceOrder(initializers.DB, in)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	order := result.Order

	response := gin.H{
		"message":  msgOrderPlaced,
		"orderId":  order.ID,
		"orderRef": order.OrderRef,
		"total":    order.TotalAmount,
		"order":    order,
	}
	if warning := services.SendReceipt(ctx.Request.Context(), deps.Notifier, order, deps.ReceiptTimeout); warning != "" {
		response["warning"] = warning
	}
	if deps.OrderFeed != nil {
		deps.OrderFeed.Broadcast("order.created", order)
	}
	sendJSONResponse(ctx, http.StatusCreated, response)
}

// GetOrders lists every order for the admin dashboard.
func GetOrders(ctx *gin.Context) {
	page, limit := parsePage(ctx, 15)
	q := services.OrderQuery{
		Page:   page,
		Limit:  limit,
		Sort:   strings.ToLower(ctx.DefaultQuery("sort", "desc")),
		Search: strings.TrimSpace(ctx.Query("search")),
	}
	if s := ctx.Query("status"); s != "" {
		status, err := services.ParseOrderStatus(s)
		if err != nil {
			respondWithServiceError(ctx, err)
			return
		}
		q.Status = status
	}
	if _, ok := ctx.GetQuery("customerId"); ok {
		customerID, ok := parseIDQuery(ctx, "customerId")
		if !ok {
			return
		}
		q.CustomerID = &customerID
	}

	orders, meta, err := services.ListOrders(initializers.DB, q)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders, "metadata": meta})
}

func GetOrderById(ctx *gin.Context) {
	orderId, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}
	order, err := services.GetOrder(initializers.DB, orderId)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetMyOrders lists the signed-in customer's orders, newest first.
func GetMyOrders(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	page, limit := parsePage(ctx, 10)

	orders, meta, err := services.ListOrders(initializers.DB, services.OrderQuery{
		Page:       page,
		Limit:      limit,
		CustomerID: &customerID,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders, "metadata": meta})
}

func GetMyOrder(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)
	orderId, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}
	order, err := services.GetOrder(initializers.DB, orderId)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	if order.CustomerID == nil || *order.CustomerID != customerID {
		respondWithServiceError(ctx, services.NotFoundf("order not found"))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func UpdateOrderStatus(ctx *gin.Context) {
	orderId, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}
	var input statusInput
	if !bindJSON(ctx, &input) {
		return
	}
	status, err := services.ParseOrderStatus(input.Status)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	order, err := services.UpdateOrderStatus(initializers.DB, orderId, status)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	if deps.OrderFeed != nil {
		deps.OrderFeed.Broadcast("order.updated", order)
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func UpdatePaymentStatus(ctx *gin.Context) {
	orderId, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}
	var input statusInput
	if !bindJSON(ctx, &input) {
		return
	}
	status, err := services.ParsePaymentStatus(input.Status)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	if err := services.UpdatePaymentStatus(initializers.DB, orderId, status); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Payment status updated", "paymentStatus": status})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}
	if err := services.DeleteOrder(initializers.DB, orderId); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

// OrderFeed upgrades the connection and streams order events to an admin dashboard.
func OrderFeed(ctx *gin.Context) {
	if deps.OrderFeed == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Order feed is not available")
		return
	}
	deps.OrderFeed.Serve(ctx.Writer, ctx.Request)
}
