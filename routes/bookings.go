package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"railporter-server/middleware"
	"railporter-server/models"
	"railporter-server/poller"
	"railporter-server/services"
	"railporter-server/utils"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	{
		bookings.POST("", createBooking)
		bookings.GET("/:id", getBooking)
		bookings.GET("/:id/wait", waitForBookingDecision)
		bookings.PATCH("/:id/status", middleware.OptionalPorterAuth(), updateBookingStatus)
		bookings.GET("/phone/:phone", getBookingsByPhone)
	}

	// Train details prefill for the booking form
	router.GET("/pnr/:pnr", lookupPNR)
}

func createBooking(c *gin.Context) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid booking data: " + err.Error(),
		})
		return
	}

	booking, err := bookingService.CreateBooking(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"booking": booking,
	})
}

func getBooking(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	booking, err := bookingService.GetBooking(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
	})
}

// waitForBookingDecision long-polls until the porter decides on a
// pending booking or the wait window closes. Clients that cannot hold a
// websocket open use this instead of hammering GET /bookings/:id.
func waitForBookingDecision(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	timeout := 30 * time.Second
	if raw := c.Query("timeout"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 60 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "timeout must be between 1 and 60 seconds",
			})
			return
		}
		timeout = time.Duration(parsed) * time.Second
	}

	// Fail fast on unknown bookings before committing to the wait
	if _, err := bookingService.GetBooking(id); err != nil {
		respondError(c, err)
		return
	}

	watcher := &poller.PollingWatcher{
		Fetcher:  bookingService,
		Interval: 2 * time.Second,
		Timeout:  timeout,
	}

	outcome, booking, err := watcher.Watch(c.Request.Context(), id)
	if err != nil {
		// Client went away; nothing to answer
		return
	}

	if outcome == poller.OutcomeTimeout {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"outcome": outcome,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"outcome": outcome,
		"booking": booking,
	})
}

func updateBookingStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.BookingStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "status is required",
		})
		return
	}

	actor := services.ActorRolePassenger
	switch c.GetString("role") {
	case "porter":
		actor = services.ActorRolePorter
	case "admin":
		actor = services.ActorRoleAdmin
	}

	booking, err := bookingService.TransitionStatus(id, models.BookingStatus(req.Status), actor, c.GetUint("porter_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
	})
}

func getBookingsByPhone(c *gin.Context) {
	phone := c.Param("phone")
	if !utils.ValidatePhoneNumber(phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "phone must be 10 digits",
		})
		return
	}

	bookings, err := bookingService.ListBookingsForPhone(phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func lookupPNR(c *gin.Context) {
	pnr := c.Param("pnr")
	if len(pnr) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid PNR",
		})
		return
	}

	details := utils.LookupPNR(pnr)
	log.Printf("🔍 PNR %s resolved via %s", pnr, details.Source)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"details": details,
	})
}
