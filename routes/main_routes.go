// routes/main_routes.go
package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/controllers"
	"github.com/brighthaven/brighthaven_backend/middleware"
	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/services"
)

// RegisterPublicRoutes sets up the endpoints that serve the marketing site
// and the public side of the back office.
func RegisterPublicRoutes(e *echo.Echo, db *mongo.Client, mailer *services.MailerService) {
	registrationController := controllers.NewRegistrationController(db, mailer)
	contactController := controllers.NewContactController(services.NewRecaptchaService(), mailer)
	promotionController := controllers.NewPromotionController(db)
	testimonialController := controllers.NewTestimonialController(db)

	api := e.Group("/api")
	api.POST("/register", registrationController.Register)
	api.POST("/contact", contactController.SubmitContactForm)
	api.GET("/promotions", promotionController.GetPromotions)
	api.GET("/testimonials", testimonialController.GetTestimonials)
}

// RegisterAuthRoutes sets up login plus the authenticated self-service
// endpoints shared by every approved user.
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)

	auth := e.Group("/api/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.RefreshToken)

	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.GET("/validate", authController.ValidateToken)

	account := protected.Group("")
	account.Use(middleware.RequireApproved(db))
	account.PUT("/change-password", authController.ChangePassword)

	users := e.Group("/api/users")
	users.Use(middleware.JWTMiddleware())
	users.Use(middleware.RequireApproved(db))
	users.GET("/me", userController.Me)
	users.POST("/me/photo", userController.UploadProfilePhoto)
}

// RegisterAdminRoutes sets up the admin back office: registration review,
// user management and marketing content.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, mailer *services.MailerService) {
	registrationController := controllers.NewRegistrationController(db, mailer)
	userController := controllers.NewUserController(db)
	promotionController := controllers.NewPromotionController(db)
	testimonialController := controllers.NewTestimonialController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(db, models.RoleAdmin))

	admin.GET("/registrations", registrationController.GetPendingRegistrations)
	admin.POST("/registrations/:id/approve", registrationController.ApproveRegistration)
	admin.POST("/registrations/:id/reject", registrationController.RejectRegistration)

	admin.GET("/users", userController.GetAllUsers)
	admin.PATCH("/users/:id", userController.UpdateUser)

	admin.POST("/promotions", promotionController.CreatePromotion)
	admin.PUT("/promotions/:id", promotionController.UpdatePromotion)
	admin.DELETE("/promotions/:id", promotionController.DeletePromotion)

	admin.POST("/testimonials", testimonialController.CreateTestimonial)
	admin.PUT("/testimonials/:id", testimonialController.UpdateTestimonial)
	admin.DELETE("/testimonials/:id", testimonialController.DeleteTestimonial)
}

// RegisterEmployeeRoutes sets up the time clock, available to every approved
// user whatever their role.
func RegisterEmployeeRoutes(e *echo.Echo, db *mongo.Client) {
	timeLogController := controllers.NewTimeLogController(db)

	timelogs := e.Group("/api/timelogs")
	timelogs.Use(middleware.JWTMiddleware())
	timelogs.Use(middleware.RequireApproved(db))
	timelogs.POST("", timeLogController.Punch)
	timelogs.GET("/last", timeLogController.LastEntry)
}
