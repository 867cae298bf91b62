package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Freezy Bites API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create customer account
- POST "/auth/login" - Access customer account
- POST "/auth/verify-email/:activationToken" - Activate customer account
- POST "/auth/forgot-password" - Request a password reset link
- POST "/auth/reset-password/:resetToken" - Reset password
- POST "/admin/login" - Access admin account

STOREFRONT
- GET "/products" - Browse products
- GET "/products/:id" - Get product by ID
- GET "/offers" - Live offers
- GET "/content/:key" - Website content section
- POST "/messages" - Contact us

CHECKOUT
- POST "/checkout" - Place an order (guest or signed in)

CUSTOMER
- GET "/me" - Current customer
- GET "/me/orders" - My orders
- GET "/me/orders/:orderId" - My order by ID
- GET|POST|DELETE "/cart" - Server cart
- PUT|DELETE "/cart/:productId" - Cart line

ADMIN
- "/admin/products", "/admin/inventory", "/admin/orders", "/admin/customers",
  "/admin/employees", "/admin/offers", "/admin/messages", "/admin/content",
  "/admin/analytics", "/admin/admins"`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
