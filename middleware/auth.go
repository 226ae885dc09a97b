package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-server/database"
	"clinic-server/models"
	"clinic-server/services"
)

// AuthMiddleware validates access tokens and sets the caller in context
func AuthMiddleware() gin.HandlerFunc {
	tokenService := services.NewTokenService()

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "AUTH_INVALID_TOKEN", "message": "Authorization header required"},
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "AUTH_INVALID_TOKEN", "message": "Token must be in format: Bearer <token>"},
			})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "AUTH_INVALID_TOKEN", "message": "Token is invalid or expired"},
			})
			c.Abort()
			return
		}

		// The token is trusted for identity, but active-state and role are
		// re-read so a deactivated or demoted user is cut off immediately.
		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "AUTH_INVALID_TOKEN", "message": "User associated with token not found"},
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "AUTH_FORBIDDEN", "message": "User account is deactivated"},
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("caller", services.Caller{ID: user.ID, Role: user.Role})

		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user holds one of
// the given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(models.User)
		if ok {
			for _, role := range roles {
				if user.Role == role {
					c.Next()
					return
				}
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{"code": "FORBIDDEN", "message": "Access denied"},
		})
		c.Abort()
	}
}

// CallerFrom extracts the caller identity set by AuthMiddleware.
func CallerFrom(c *gin.Context) services.Caller {
	caller, _ := c.MustGet("caller").(services.Caller)
	return caller
}
