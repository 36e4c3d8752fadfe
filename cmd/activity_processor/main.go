package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/skillforge-lms/internal/activity_processor/consumer"
	"github.com/skillforge-lms/internal/activity_processor/service"
	"github.com/skillforge-lms/internal/config"
	"github.com/skillforge-lms/internal/data/mongo"
	"github.com/skillforge-lms/internal/logger"
	"github.com/skillforge-lms/internal/platform/messaging/consumers"
	"github.com/skillforge-lms/internal/platform/messaging/producers"
	"github.com/skillforge-lms/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("activity_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Activity Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize MongoDB with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	if err := mongo.EnsureIndexes(appCtx, log, mongoDB.Database()); err != nil {
		log.Error("Failed to ensure MongoDB indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	// dlqProducer is nil when DLQTopic is not configured. The handler checks
	// its publisher against nil, so a disabled DLQ must be handed over as a
	// nil interface, not a typed-nil *DLQProducer.
	var deadLetterPublisher producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetterPublisher = dlqProducer
	}

	// Initialize recording service behind a worker pool
	baseService := service.NewActivityRecordingService(log, activityRepo)
	recordingService, err := service.NewWorkerPoolRecordingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize activity event handler
	activityEventHandler := consumer.NewActivityEventHandler(
		log,
		recordingService,
		deadLetterPublisher,
	)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.ActivityTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.ActivityTopic, cfg.Kafka.ConsumerGroup, activityEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the worker pool
	log.Info("Shutting down worker pool", "running_workers", recordingService.Running())
	recordingService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Activity Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Activity Processor shutdown completed with errors")
	} else {
		log.Info("Activity Processor shutdown completed successfully")
	}
}
