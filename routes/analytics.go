package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"railporter-server/database"
	"railporter-server/middleware"
	"railporter-server/models"
)

// RegisterAnalyticsRoutes registers visit tracking and the admin dashboard.
// Visit writes are fire-and-forget: failures are logged and the client
// still gets a success response, since analytics must never break a
// booking flow.
func RegisterAnalyticsRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.POST("/visit", createVisit)
		analytics.PATCH("/visit/:sessionId/booking", linkVisitBooking)
		analytics.GET("/dashboard", middleware.AdminAuthMiddleware(), getDashboard)
	}
}

func createVisit(c *gin.Context) {
	var req models.AnalyticsVisitCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid visit data",
		})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	visit := models.AnalyticsVisit{
		SessionID: req.SessionID,
		Device:    req.Device,
		Browser:   req.Browser,
		OS:        req.OS,
		Page:      req.Page,
	}

	if err := database.DB.Create(&visit).Error; err != nil {
		// Duplicate session or transient failure, either way not the
		// client's problem
		log.Printf("⚠️ Analytics visit write failed for session %s: %v", req.SessionID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": req.SessionID,
	})
}

func linkVisitBooking(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req struct {
		BookingID uint `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "booking_id is required",
		})
		return
	}

	result := database.DB.Model(&models.AnalyticsVisit{}).
		Where("session_id = ?", sessionID).
		Update("booking_id", req.BookingID)
	if result.Error != nil {
		log.Printf("⚠️ Analytics booking link failed for session %s: %v", sessionID, result.Error)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// dashboardStats aggregates the admin dashboard counters
func dashboardStats() (*models.DashboardStats, error) {
	var stats models.DashboardStats

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := database.DB.Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, sc := range counts {
		stats.TotalBookings += sc.Count
		switch models.BookingStatus(sc.Status) {
		case models.BookingStatusPending:
			stats.PendingBookings = sc.Count
		case models.BookingStatusAccepted:
			stats.AcceptedBookings = sc.Count
		case models.BookingStatusDeclined:
			stats.DeclinedBookings = sc.Count
		case models.BookingStatusCompleted:
			stats.CompletedBookings = sc.Count
		}
	}

	if err := database.DB.Raw(`
		SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status = ?`,
		models.BookingStatusCompleted).Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.Porter{}).Count(&stats.TotalPorters).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Porter{}).
		Where("is_online = ?", true).Count(&stats.OnlinePorters).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Review{}).Count(&stats.TotalReviews).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.AnalyticsVisit{}).Count(&stats.TotalVisits).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func getDashboard(c *gin.Context) {
	stats, err := dashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
