package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "gearshare-backend/internal/api/http"
	"gearshare-backend/internal/config"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local .env overrides are optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GearShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), 0)

	// Realtime notifier over Redis. Missing Redis degrades to no realtime
	// events; the engine itself does not depend on it.
	var notifier *events.Notifier
	if cfg.Redis.Address != "" {
		redisClient := events.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		notifier = events.NewNotifier(redisClient)
		defer redisClient.Close()
		logger.Info("Redis notifier configured", "address", cfg.Redis.Address)
	} else {
		logger.Warn("Redis not configured, realtime events disabled")
	}

	// Payment gateway. The simulated gateway stands in until a processor
	// account is provisioned.
	gateway := payment.NewSimulatedGateway()

	// Initialize Email Service
	emailSvc := service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, store.VerificationRepository, tokenManager)
	equipmentSvc := service.NewEquipmentService(store.EquipmentRepository, store.UserRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.EquipmentRepository,
		store.PaymentRepository,
		store.UserRepository,
		store.InspectionRepository,
		store.NotificationRepository,
		gateway,
		emailSvc,
		notifier,
		cfg.ClaimWindow(),
	)
	paymentSvc := service.NewPaymentService(
		store.PaymentRepository,
		store.BookingRepository,
		gateway,
		store.NotificationRepository,
		notifier,
		cfg.Payment.ConfirmPollAttempts,
		cfg.ConfirmPollInterval(),
	)
	inspectionSvc := service.NewInspectionService(
		store.InspectionRepository,
		store.BookingRepository,
		store.NotificationRepository,
		notifier,
	)
	claimSvc := service.NewClaimService(
		store.ClaimRepository,
		store.BookingRepository,
		store.InspectionRepository,
		store.PaymentRepository,
		store.EquipmentRepository,
		store.UserRepository,
		gateway,
		emailSvc,
		notifier,
		cfg.ClaimWindow(),
	)
	trustSvc := service.NewTrustService(store.VerificationRepository, store.BookingRepository, store.UserRepository)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	router := httpapi.NewRouter(httpapi.Services{
		Auth:         authSvc,
		Equipment:    equipmentSvc,
		Booking:      bookingSvc,
		Payment:      paymentSvc,
		Inspection:   inspectionSvc,
		Claim:        claimSvc,
		Trust:        trustSvc,
		Notification: notificationSvc,
	}, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
