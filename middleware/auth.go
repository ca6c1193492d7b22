package middleware

import (
	"strings"

	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and, when roles are given,
// requires one of them.
func AuthMiddleware(tokens *services.TokenService, roles ...int) gin.HandlerFunc {
	return authenticate(tokens, bearerToken, roles)
}

// WebsocketAuthMiddleware is AuthMiddleware that also accepts the token in the
// "token" query parameter. Browsers cannot set headers on a websocket upgrade.
func WebsocketAuthMiddleware(tokens *services.TokenService, roles ...int) gin.HandlerFunc {
	return authenticate(tokens, func(c *gin.Context) (string, bool) {
		if token, ok := bearerToken(c); ok {
			return token, true
		}
		token := c.Query("token")
		return token, token != ""
	}, roles)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func authenticate(tokens *services.TokenService, extract func(*gin.Context) (string, bool), roles []int) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extract(c)
		if !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userInfo, err := tokens.ParseToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(userInfo.Role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("userID", userInfo.UserId)
		c.Set("userRole", userInfo.Role)
		c.Next()
	}
}

// RoleMiddleware checks the role stored by AuthMiddleware.
func RoleMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("userRole")
		if !exists {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		role, ok := userRole.(int)
		if !ok || !hasRole(role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasRole(role int, roles []int) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ErrorHandler answers with the last error a handler attached through c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.FromError(c, c.Errors.Last().Err)
		}
	}
}
