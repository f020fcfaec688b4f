package routes

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"railporter-server/config"
	"railporter-server/database"
	"railporter-server/middleware"
	"railporter-server/models"
	"railporter-server/utils"
)

// RegisterAdminRoutes registers the operations console endpoints
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", middleware.AuthRateLimitMiddleware(), adminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.GET("/dashboard", getDashboard)
			protected.GET("/bookings", adminListBookings)
			protected.GET("/bookings/report", adminBookingsReport)
			protected.DELETE("/bookings/:id", adminDeleteBooking)
			protected.GET("/porters", adminListPorters)
			protected.PATCH("/porters/:id/verify", adminVerifyPorter)
		}
	}
}

func adminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "username and password are required",
		})
		return
	}

	cfg := config.AppConfig.Admin
	// Admin login is disabled until ADMIN_PASSWORD is set
	if cfg.Password == "" || req.Username != cfg.Username || req.Password != cfg.Password {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid admin credentials",
		})
		return
	}

	token, err := utils.GenerateToken(0, "admin")
	if err != nil {
		log.Printf("❌ Admin token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Login failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

func adminListBookings(c *gin.Context) {
	status := models.BookingStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Unknown status filter",
		})
		return
	}

	var bookings []models.Booking
	query := database.DB.Preload("Porter").Order("created_at DESC").Limit(500)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&bookings).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func adminDeleteBooking(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	result := database.DB.Delete(&models.Booking{}, id)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Booking not found",
		})
		return
	}

	log.Printf("🗑️ Admin deleted booking %d", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func adminListPorters(c *gin.Context) {
	var porters []models.Porter
	if err := database.DB.Order("created_at DESC").Find(&porters).Error; err != nil {
		respondError(c, err)
		return
	}

	profiles := make([]models.PorterProfile, 0, len(porters))
	for i := range porters {
		profiles = append(profiles, porters[i].Profile())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"porters": profiles,
		"count":   len(profiles),
	})
}

func adminVerifyPorter(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	result := database.DB.Model(&models.Porter{}).
		Where("id = ?", id).
		Update("is_verified", true)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Porter not found",
		})
		return
	}

	log.Printf("✅ Admin verified porter %d", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// adminBookingsReport renders the recent bookings as a PDF
func adminBookingsReport(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.Preload("Porter").
		Order("created_at DESC").
		Limit(200).
		Find(&bookings).Error; err != nil {
		respondError(c, err)
		return
	}

	data, err := buildBookingsReportPDF(bookings)
	if err != nil {
		log.Printf("❌ Bookings report PDF failed: %v", err)
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings_report_%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func buildBookingsReportPDF(bookings []models.Booking) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Bookings Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Porter Bookings Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	headers := []string{"Ref", "Passenger", "Phone", "Station", "Bags", "Price", "Status", "Porter", "Created"}
	widths := []float64{28, 38, 26, 28, 12, 20, 24, 38, 32}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range bookings {
		porterName := "-"
		if b.Porter != nil {
			porterName = b.Porter.Name
		}
		row := []string{
			b.ReferenceCode,
			b.PassengerName,
			b.Phone,
			b.Station,
			fmt.Sprintf("%d", b.Bags),
			fmt.Sprintf("%.0f", b.TotalPrice),
			string(b.Status),
			porterName,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
