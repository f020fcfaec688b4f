package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"railporter-server/database"
	"railporter-server/models"
	"railporter-server/types"
	"railporter-server/utils"
)

// Claims represents the JWT claims (using shared types)
type Claims = types.Claims

// PorterAuthMiddleware validates a porter bearer token and loads the
// porter into the request context
func PorterAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}

		if claims.Role != "porter" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Porter access required",
				"message": "This endpoint is for porters only",
			})
			c.Abort()
			return
		}

		var porter models.Porter
		if err := database.DB.First(&porter, claims.PorterID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Porter not found",
				"message": "Porter associated with token not found",
			})
			c.Abort()
			return
		}

		c.Set("porter", porter)
		c.Set("porter_id", porter.ID)
		c.Next()
	}
}

// AdminAuthMiddleware validates an admin bearer token
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}

		if claims.Role != "admin" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Admin access required",
				"message": "This endpoint is for administrators only",
			})
			c.Abort()
			return
		}

		c.Set("role", "admin")
		c.Next()
	}
}

// OptionalPorterAuth loads porter context when a valid bearer token is
// present but never rejects the request. Booking status updates use it to
// tell a porter's transition apart from a passenger's.
func OptionalPorterAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if claims.Role == "porter" {
			c.Set("porter_id", claims.PorterID)
		}
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}
	return tokenString, true
}

func bearerClaims(c *gin.Context) (*Claims, bool) {
	tokenString, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authorization header required",
			"message": "Please provide a valid token",
		})
		c.Abort()
		return nil, false
	}

	claims, err := utils.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid token",
			"message": "Token is invalid or expired",
		})
		c.Abort()
		return nil, false
	}

	return claims, true
}
