package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railporter-server/apperrors"
	"railporter-server/services"
	"railporter-server/websocket"
)

// Shared service handles, wired once from main.go
var (
	bookingService      *services.BookingService
	reviewService       *services.ReviewService
	notificationService *services.NotificationService
	statusHub           *websocket.Hub
)

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, bookings *services.BookingService, reviews *services.ReviewService, notifications *services.NotificationService, hub *websocket.Hub) {
	bookingService = bookings
	reviewService = reviews
	notificationService = notifications
	statusHub = hub

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		RegisterBookingRoutes(api)
		RegisterPorterRoutes(api)
		RegisterReviewRoutes(api)
		RegisterNotificationRoutes(api)
		RegisterAnalyticsRoutes(api)
		RegisterAdminRoutes(api)
		RegisterWebsocketRoutes(api)
	}
}

// respondError maps an application error to its HTTP status
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{
			"success": false,
			"message": "Something went wrong, please try again",
		})
		return
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": err.Error(),
	})
}

// parseUintParam parses a numeric path parameter
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
