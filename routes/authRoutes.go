package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
)

func AuthRoutes(server *gin.Engine, secret string) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-email/:activationToken", controllers.ActivateAccount)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", controllers.ResetPassword)
	}
	server.POST("/admin/login", controllers.AdminLogin)

	me := server.Group("/me", middlewares.RequireAuth(secret), middlewares.RequireCustomer())
	{
		me.GET("", controllers.Me)
		me.GET("/orders", controllers.GetMyOrders)
		me.GET("/orders/:orderId", controllers.GetMyOrder)
	}
}
