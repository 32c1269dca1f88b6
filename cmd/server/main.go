package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "vehicle-rental-backend/internal/api/http"
	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/events"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository/postgres"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Vehicle Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	var revocations security.RevocationStore
	if cfg.Redis.Addr != "" {
		client, err := security.ConnectRedis(cfg.Redis.Addr)
		if err != nil {
			logger.Error("Failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		revocations = security.NewRedisRevocationStore(client)
		logger.Info("Token revocation backed by redis", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("No redis configured, token revocation is process-local")
		revocations = security.NewMemoryRevocationStore()
	}

	// Initialize event sinks
	var sinks []events.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		if err != nil {
			log.Fatalf("Failed to initialize kafka sink: %v", err)
		}
		sinks = append(sinks, kafkaSink)
		logger.Info("Publishing domain events to kafka", "brokers", cfg.Kafka.Brokers, "topic_prefix", cfg.Kafka.TopicPrefix)
	}
	if cfg.SMTP.Host != "" {
		sinks = append(sinks, events.NewEmailSink(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From))
		logger.Info("Mailing notifications", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	}
	dispatcher := events.NewDispatcher(sinks...)
	dispatcher.Start(cfg.Events.Workers, cfg.Events.QueueSize)
	defer dispatcher.Close()

	// Initialize Storage Service
	logger.Info("Using local image storage", "upload_dir", cfg.Storage.UploadDir)
	images, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize Services
	deps := service.Deps{
		Repos:      store.Repositories,
		Tx:         store,
		Dispatcher: dispatcher,
		Policy:     security.DefaultPolicy(),
	}
	authSvc := service.NewAuthService(deps, tokenManager, revocations)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:          httpapi.NewAuthHandler(authSvc),
		Vehicles:      httpapi.NewVehicleHandler(service.NewVehicleService(deps, images), cfg.Storage.AllowedTypes, cfg.Storage.MaxFileSize),
		Availability:  httpapi.NewAvailabilityHandler(service.NewAvailabilityService(store.Repositories)),
		Bookings:      httpapi.NewBookingHandler(service.NewBookingService(deps), deps.Policy),
		Maintenance:   httpapi.NewMaintenanceHandler(service.NewMaintenanceService(deps)),
		Activities:    httpapi.NewActivityHandler(service.NewActivityService(deps)),
		Notifications: httpapi.NewNotificationHandler(service.NewNotificationService(deps)),
		Reports:       httpapi.NewReportHandler(service.NewReportService(deps)),
		Dashboard:     httpapi.NewDashboardHandler(service.NewDashboardService(deps)),
		Storage:       httpapi.NewStorageHandler(images),
		Health:        httpapi.NewHealthHandler(db),
	}, httpapi.NewAuthMiddleware(authSvc))

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
