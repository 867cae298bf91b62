package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/utils"
)

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, exists := CurrentIdentity(ctx)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}
		if !id.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		ctx.Next()
	}
}

func RequireSuperAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, exists := CurrentIdentity(ctx)
		if !exists || id.Role != utils.RoleSuperAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Super admin access required"})
			return
		}
		ctx.Next()
	}
}

func RequireCustomer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentCustomerID(ctx); !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Customer account required"})
			return
		}
		ctx.Next()
	}
}
