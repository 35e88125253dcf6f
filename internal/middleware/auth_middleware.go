package middleware

import (
	"net/http"
	"strings"

	"github.com/bitsim/lucky-draw-backend/internal/config"
	"github.com/bitsim/lucky-draw-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware guards the admin API
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if adminID, ok := claims["admin_id"].(string); ok {
			c.Set("adminID", adminID)
		}
		c.Next()
	}
}
