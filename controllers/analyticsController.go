package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/services"
)

// GetAnalytics answers the dashboard numbers for the last ?days days (30 by default).
func GetAnalytics(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 366 {
		sendErrorResponse(ctx, http.StatusBadRequest, "days must be between 1 and 366")
		return
	}
	since := time.Now().AddDate(0, 0, -days)

	summary, err := services.SalesSummaryOf(initializers.DB, since)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	top, err := services.TopProducts(initializers.DB, 10)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	daily, err := services.DailyRevenueOf(initializers.DB, days)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	inventory, err := services.InventorySummaryOf(initializers.DB)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"sales":       summary,
		"topProducts": top,
		"daily":       daily,
		"inventory":   inventory,
	})
}
