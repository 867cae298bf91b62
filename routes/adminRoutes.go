package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
)

func AdminRoutes(server *gin.Engine, secret string) {
	server.GET("/admin/orders/ws", middlewares.RequireSocketAuth(secret), middlewares.RequireAdmin(), controllers.OrderFeed)

	admin := server.Group("/admin", middlewares.RequireAuth(secret), middlewares.RequireAdmin())

	products := admin.Group("/products")
	{
		products.GET("", controllers.AdminGetProducts)
		products.POST("", controllers.CreateProduct)
		products.PUT("/:id", controllers.UpdateProduct)
		products.DELETE("/:id", controllers.DeleteProduct)
		products.PATCH("/:id/stock", controllers.UpdateProductStock)
		products.POST("/:id/image", controllers.UploadProductImage)
	}

	admin.GET("/inventory", controllers.GetInventory)
	admin.GET("/inventory/export", controllers.ExportInventory)

	orders := admin.Group("/orders")
	{
		orders.GET("", controllers.GetOrders)
		orders.GET("/:orderId", controllers.GetOrderById)
		orders.PATCH("/:orderId/status", controllers.UpdateOrderStatus)
		orders.PATCH("/:orderId/payment-status", controllers.UpdatePaymentStatus)
		orders.DELETE("/:orderId", controllers.DeleteOrder)
	}

	customers := admin.Group("/customers")
	{
		customers.GET("", controllers.GetCustomers)
		customers.GET("/:id", controllers.GetCustomer)
		customers.PATCH("/:id/status", controllers.UpdateCustomerStatus)
	}

	employees := admin.Group("/employees")
	{
		employees.GET("", controllers.GetEmployees)
		employees.POST("", controllers.CreateEmployee)
		employees.PUT("/:id", controllers.UpdateEmployee)
		employees.DELETE("/:id", controllers.DeleteEmployee)
	}

	offers := admin.Group("/offers")
	{
		offers.GET("", controllers.GetOffers)
		offers.POST("", controllers.CreateOffer)
		offers.PUT("/:id", controllers.UpdateOffer)
		offers.DELETE("/:id", controllers.DeleteOffer)
	}

	messages := admin.Group("/messages")
	{
		messages.GET("", controllers.GetMessages)
		messages.PATCH("/:id/read", controllers.MarkMessageRead)
		messages.DELETE("/:id", controllers.DeleteMessage)
	}

	admin.GET("/content", controllers.GetAllContent)
	admin.PUT("/content/:key", controllers.PutContent)

	admin.GET("/analytics", controllers.GetAnalytics)

	admins := admin.Group("/admins", middlewares.RequireSuperAdmin())
	{
		admins.GET("", controllers.GetAdmins)
		admins.POST("", controllers.CreateAdmin)
	}
}
