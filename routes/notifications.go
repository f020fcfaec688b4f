package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railporter-server/models"
)

// RegisterNotificationRoutes registers the per-actor notification feed.
// The actor ID is a porter ID for porters and a phone number for
// passengers; both arrive as the :id path segment.
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("/:id", getNotifications)
		notifications.PATCH("/:id/read", markNotificationRead)
		notifications.PATCH("/:id/read-all", markAllNotificationsRead)
	}
}

func getNotifications(c *gin.Context) {
	actorID := c.Param("id")
	if actorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "actor id is required",
		})
		return
	}

	actorType := models.ActorType(c.Query("type"))
	switch actorType {
	case "", models.ActorPassenger, models.ActorPorter, models.ActorAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Unknown actor type",
		})
		return
	}

	notifications, unread, err := notificationService.List(actorID, actorType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func markNotificationRead(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid notification id",
		})
		return
	}

	if err := notificationService.MarkRead(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// markAllNotificationsRead interprets :id as the actor ID
func markAllNotificationsRead(c *gin.Context) {
	actorID := c.Param("id")
	if actorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "actor id is required",
		})
		return
	}

	if err := notificationService.MarkAllRead(actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
