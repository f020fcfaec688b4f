package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"railporter-server/cache"
	"railporter-server/config"
	"railporter-server/database"
	"railporter-server/jobs"
	"railporter-server/middleware"
	"railporter-server/routes"
	"railporter-server/services"
	ws "railporter-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		seedPorters()
		return
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Redis is optional; review listings fall back to Postgres without it
	cache.Initialize()

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	middleware.StartLimiterCleanup()

	// CORS: the passenger webapp and porter app run on separate origins
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Status hub pushes booking transitions to connected clients
	statusHub := ws.NewHub()
	go statusHub.Run()

	// Service wiring
	notificationService := services.NewNotificationService()
	matcher := services.NewPorterMatcher()
	bookingService := services.NewBookingService(matcher, notificationService, statusHub)
	reviewService := services.NewReviewService()

	routes.RegisterRoutes(router, bookingService, reviewService, notificationService, statusHub)

	// Background sweep keeping porter presence honest
	presenceJob := jobs.NewPresenceJob()
	presenceJob.Start()

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Rail porter server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
