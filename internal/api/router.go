package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-lms/internal/api/handler"
	"github.com/skillforge-lms/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application.
// The webhook route stays outside the auth group: the provider
// authenticates with its payload signature, not a bearer token.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	tokens *middleware.TokenManager,
	authHandler *handler.AuthHandler,
	courseHandler *handler.CourseHandler,
	paymentHandler *handler.PaymentHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	activityHandler *handler.ActivityHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account registration and login
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Course catalog; reads are public, publishing needs a session
		courses := v1.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:id", courseHandler.GetByID)
			courses.POST("", middleware.Auth(logger, tokens), courseHandler.Create)
			courses.GET("/:id/activities", middleware.Auth(logger, tokens), activityHandler.ListByCourse)
		}

		// Payment triggers
		payments := v1.Group("/payments")
		{
			payments.POST("/webhook", paymentHandler.Webhook)

			authed := payments.Group("")
			authed.Use(middleware.Auth(logger, tokens))
			{
				authed.POST("/checkout", paymentHandler.CreateCheckout)
				authed.POST("/verify", paymentHandler.Verify)
				authed.POST("/success", paymentHandler.Success)
			}
		}

		// Enrollment reads
		enrollments := v1.Group("/enrollments")
		enrollments.Use(middleware.Auth(logger, tokens))
		{
			enrollments.GET("", enrollmentHandler.List)
		}

		// Audit trail reads
		activities := v1.Group("/activities")
		activities.Use(middleware.Auth(logger, tokens))
		{
			activities.GET("", activityHandler.ListMine)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
