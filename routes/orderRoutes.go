package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
)

// OrderRoutes registers checkout and the customer cart. Checkout accepts guests, so its
// token is optional.
func OrderRoutes(server *gin.Engine, secret string) {
	server.POST("/checkout", middlewares.OptionalAuth(secret), controllers.Checkout)

	cart := server.Group("/cart", middlewares.RequireAuth(secret), middlewares.RequireCustomer())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.CreateCartItem)
		cart.DELETE("", controllers.ClearCart)
		cart.PUT("/:productId", controllers.UpdateCartItem)
		cart.DELETE("/:productId", controllers.DeleteCartItem)
	}
}
