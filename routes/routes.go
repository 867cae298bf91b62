package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
)

// SetupRoutes registers the validators and every route group on server.
func SetupRoutes(server *gin.Engine, secret string) error {
	if err := controllers.RegisterValidators(); err != nil {
		return err
	}
	DefaultRoutes(server)
	AuthRoutes(server, secret)
	ProductRoutes(server)
	OrderRoutes(server, secret)
	AdminRoutes(server, secret)
	return nil
}
