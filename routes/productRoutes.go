package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/products", controllers.GetProducts)
	server.GET("/products/:id", controllers.GetProduct)
}
