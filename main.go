package main

import (
	"context"
	"log"
	"mime"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/middleware"
	"github.com/brighthaven/brighthaven_backend/routes"
	"github.com/brighthaven/brighthaven_backend/services"
	"github.com/brighthaven/brighthaven_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Ensure correct MIME type for SVG files
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	// Connect to Redis; a nil client falls back to in-memory revocation
	middleware.UseRevocationStore(config.ConnectRedis())

	// Connect to database
	client := config.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from database: %v", err)
		}
		config.CloseRedis()
	}()

	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "BrightHaven Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Serve uploaded images
	e.Static("/uploads", "uploads")

	mailer := services.NewMailerService()

	routes.RegisterPublicRoutes(e, client, mailer)
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterAdminRoutes(e, client, mailer)
	routes.RegisterEmployeeRoutes(e, client)

	// Drop expired entries from the in-memory revocation fallback
	go middleware.CleanupRevokedTokens()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
