package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/offers", controllers.GetLiveOffers)
	server.GET("/content/:key", controllers.GetContent)
	server.POST("/messages", controllers.CreateMessage)
}
