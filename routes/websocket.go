package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railporter-server/utils"
	"railporter-server/websocket"
)

// RegisterWebsocketRoutes registers the live booking status channel.
// Porters authenticate with ?token=; passengers identify by ?phone=
// (they have no accounts). ?booking_id= narrows the feed to one booking.
func RegisterWebsocketRoutes(router *gin.RouterGroup) {
	router.GET("/ws/bookings", serveBookingSocket)
}

func serveBookingSocket(c *gin.Context) {
	var bookingID uint
	if raw := c.Query("booking_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid booking_id",
			})
			return
		}
		bookingID = uint(parsed)
	}

	var actorKey string
	if token := c.Query("token"); token != "" {
		claims, err := utils.VerifyToken(token)
		if err != nil || claims.Role != "porter" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token",
			})
			return
		}
		actorKey = websocket.PorterKey(claims.PorterID)
	} else if phone := c.Query("phone"); utils.ValidatePhoneNumber(phone) {
		actorKey = websocket.PassengerKey(phone)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "token or phone is required",
		})
		return
	}

	websocket.ServeWebSocket(statusHub, c.Writer, c.Request, actorKey, bookingID)
}
