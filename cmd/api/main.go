package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillforge-lms/internal/api"
	"github.com/skillforge-lms/internal/api/middleware"
	"github.com/skillforge-lms/internal/api/service"
	"github.com/skillforge-lms/internal/config"
	"github.com/skillforge-lms/internal/data/mongo"
	"github.com/skillforge-lms/internal/data/postgres"
	"github.com/skillforge-lms/internal/logger"
	"github.com/skillforge-lms/internal/platform/messaging/producers"
	"github.com/skillforge-lms/internal/platform/payments"
	"github.com/skillforge-lms/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// The unique (user_id, course_id) index must exist before any
	// enrollment writes are accepted.
	if err := mongo.EnsureIndexes(appCtx, log, mongoDB.Database()); err != nil {
		log.Error("Failed to ensure MongoDB indexes", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for activity events
	kafkaProducer, err := producers.NewActivityEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize activity Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize payment gateway
	gateway, err := payments.NewStripeGateway(log, &cfg.Stripe)
	if err != nil {
		log.Error("Failed to initialize payment gateway", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(log, postgresDB)
	courseRepo := mongo.NewCourseRepository(log, mongoDB.Database())
	enrollmentRepo := mongo.NewEnrollmentRepository(log, mongoDB.Database())
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	// Initialize services
	tokens := middleware.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(log, userRepo, tokens)
	courseService := service.NewCourseService(log, courseRepo)
	checkoutService := service.NewCheckoutService(log, userRepo, courseRepo, gateway)
	reconciliationService := service.NewReconciliationService(log, userRepo, courseRepo, enrollmentRepo, kafkaProducer)
	enrollmentService := service.NewEnrollmentService(log, enrollmentRepo)
	activityService := service.NewActivityService(log, activityRepo)

	// Initialize REST server
	server := api.NewServer(log, cfg, tokens, authService, courseService, checkoutService, reconciliationService, enrollmentService, activityService, gateway)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
