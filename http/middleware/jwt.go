package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/utils"
)

// AuthMiddleware validates the bearer/cookie JWT issued by the external
// identity provider and injects the opaque user_id into the request
// context. The service trusts this id; it is the tenant boundary.
func AuthMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			c.Abort()
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, cfg)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid claims"})
			c.Abort()
			return
		}

		c.Next()
	}
}
