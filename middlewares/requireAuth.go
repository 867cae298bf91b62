package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Kariqs/freezy-bites-api/utils"
)

const identityKey = "identity"

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// socketToken also accepts ?token= on websocket upgrades, where browsers cannot set headers.
func socketToken(ctx *gin.Context) string {
	if token := bearerToken(ctx); token != "" {
		return token
	}
	if websocket.IsWebSocketUpgrade(ctx.Request) {
		return ctx.Query("token")
	}
	return ""
}

func authenticate(secret string, tokenOf func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenOf(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is missing"})
			return
		}
		id, err := utils.ParseJWT(secret, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		ctx.Set(identityKey, id)
		ctx.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) gin.HandlerFunc {
	return authenticate(secret, bearerToken)
}

// RequireSocketAuth is RequireAuth for websocket endpoints.
func RequireSocketAuth(secret string) gin.HandlerFunc {
	return authenticate(secret, socketToken)
}

// OptionalAuth resolves the caller when a token is present. A bad token is still rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	required := RequireAuth(secret)
	return func(ctx *gin.Context) {
		if bearerToken(ctx) == "" {
			ctx.Next()
			return
		}
		required(ctx)
	}
}

func CurrentIdentity(ctx *gin.Context) (utils.Identity, bool) {
	value, exists := ctx.Get(identityKey)
	if !exists {
		return utils.Identity{}, false
	}
	id, ok := value.(utils.Identity)
	return id, ok
}

// CurrentCustomerID is set only for customer tokens, never for admins.
func CurrentCustomerID(ctx *gin.Context) (uint, bool) {
	id, ok := CurrentIdentity(ctx)
	if !ok || id.Role != utils.RoleCustomer {
		return 0, false
	}
	return id.UserID, true
}
