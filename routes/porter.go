package routes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"railporter-server/config"
	"railporter-server/database"
	"railporter-server/middleware"
	"railporter-server/models"
	"railporter-server/utils"
)

// RegisterPorterRoutes registers porter auth and directory endpoints
func RegisterPorterRoutes(router *gin.RouterGroup) {
	porter := router.Group("/porter")
	{
		porter.POST("/register", middleware.AuthRateLimitMiddleware(), registerPorter)
		porter.POST("/login", middleware.AuthRateLimitMiddleware(), loginPorter)
		porter.GET("/profile", middleware.PorterAuthMiddleware(), getPorterProfile)
		porter.GET("/:id/bookings", middleware.PorterAuthMiddleware(), getPorterBookings)
		porter.PATCH("/:id/status", middleware.PorterAuthMiddleware(), updatePorterStatus)
	}
}

// validateImageFile validates mimetype by extension and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadProfilePhoto pushes the photo to Cloudinary and returns its URL.
// Registration proceeds without a photo if Cloudinary is not configured.
func uploadProfilePhoto(header *multipart.FileHeader, badgeNumber string) (string, error) {
	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Println("⚠️ Cloudinary not configured, skipping profile photo upload")
		return "", nil
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	result, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		Folder:   "porters/profiles",
		PublicID: fmt.Sprintf("porter_%s_%d", badgeNumber, time.Now().Unix()),
	})
	if err != nil {
		return "", err
	}

	return result.SecureURL, nil
}

func registerPorter(c *gin.Context) {
	var req models.PorterRegister
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid registration data: " + err.Error(),
		})
		return
	}

	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "phone_number must be 10 digits",
		})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Registration failed",
		})
		return
	}

	porter := models.Porter{
		BadgeNumber:    strings.ToUpper(strings.TrimSpace(req.BadgeNumber)),
		Name:           strings.TrimSpace(req.Name),
		PhoneNumber:    req.PhoneNumber,
		Station:        strings.TrimSpace(req.Station),
		PasswordHash:   hash,
		Experience:     req.Experience,
		Specialization: req.Specialization,
		Languages:      req.Languages,
	}

	if header, err := c.FormFile("profile_photo"); err == nil && header != nil {
		if !validateImageFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid profile photo (jpg/png/webp, max 5MB)",
			})
			return
		}
		url, err := uploadProfilePhoto(header, porter.BadgeNumber)
		if err != nil {
			log.Printf("⚠️ Profile photo upload failed for badge %s: %v", porter.BadgeNumber, err)
		} else if url != "" {
			porter.ProfilePhoto = &url
		}
	}

	if err := database.DB.Create(&porter).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A porter with this phone or badge number already exists",
			})
			return
		}
		log.Printf("❌ Porter registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Registration failed",
		})
		return
	}

	token, err := utils.GenerateToken(porter.ID, "porter")
	if err != nil {
		log.Printf("❌ Token generation failed for porter %d: %v", porter.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Registration succeeded but login failed, please sign in",
		})
		return
	}

	log.Printf("✅ Porter registered: %s (badge %s)", porter.Name, porter.BadgeNumber)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"porter":  porter.Profile(),
	})
}

func loginPorter(c *gin.Context) {
	var req models.PorterLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "phone and password are required",
		})
		return
	}

	var porter models.Porter
	if err := database.DB.Where("phone_number = ?", req.PhoneNumber).First(&porter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid phone or password",
			})
			return
		}
		respondError(c, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, porter.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid phone or password",
		})
		return
	}

	token, err := utils.GenerateToken(porter.ID, "porter")
	if err != nil {
		log.Printf("❌ Token generation failed for porter %d: %v", porter.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Login failed",
		})
		return
	}

	now := time.Now()
	database.DB.Model(&porter).Updates(map[string]interface{}{
		"last_seen_at": now,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"porter":  porter.Profile(),
	})
}

func getPorterProfile(c *gin.Context) {
	porter := c.MustGet("porter").(models.Porter)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"porter":  porter.Profile(),
	})
}

// requireOwnPorterID ensures the path porter matches the token
func requireOwnPorterID(c *gin.Context) (uint, bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return 0, false
	}
	if id != c.GetUint("porter_id") {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You can only access your own porter data",
		})
		return 0, false
	}
	return id, true
}

func getPorterBookings(c *gin.Context) {
	id, ok := requireOwnPorterID(c)
	if !ok {
		return
	}

	status := models.BookingStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Unknown status filter",
		})
		return
	}

	bookings, err := bookingService.ListBookingsForPorter(id, status)
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

func updatePorterStatus(c *gin.Context) {
	id, ok := requireOwnPorterID(c)
	if !ok {
		return
	}

	var req models.PorterStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "isOnline is required",
		})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&models.Porter{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online":    *req.IsOnline,
			"last_seen_at": now,
		}).Error; err != nil {
		respondError(c, err)
		return
	}

	log.Printf("📡 Porter %d is_online=%v", id, *req.IsOnline)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"is_online": *req.IsOnline,
	})
}
