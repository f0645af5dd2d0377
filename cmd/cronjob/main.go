package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gearshare-backend/internal/config"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/jobs"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/scheduler"
	"gearshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'release-due-deposits', 'expire-pending-bookings', 'all')")
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
	logger.Info("Starting GearShare Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Realtime notifier over Redis; deposit releases publish events too.
	var notifier *events.Notifier
	if cfg.Redis.Address != "" {
		redisClient := events.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		notifier = events.NewNotifier(redisClient)
		defer redisClient.Close()
		logger.Info("Redis notifier configured", "address", cfg.Redis.Address)
	} else {
		logger.Warn("Redis not configured, realtime events disabled")
	}

	// Initialize Services
	gateway := payment.NewSimulatedGateway()
	emailService := service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	paymentService := service.NewPaymentService(
		store.PaymentRepository,
		store.BookingRepository,
		gateway,
		store.NotificationRepository,
		notifier,
		cfg.Payment.ConfirmPollAttempts,
		cfg.ConfirmPollInterval(),
	)

	jobServices := &jobs.Services{
		Payment: paymentService,
		Email:   emailService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "release-due-deposits":
		jobRunner.ReleaseDueDeposits()
	case "expire-pending-bookings":
		jobRunner.ExpirePendingBookings()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - release-due-deposits\n")
		fmt.Printf("  - expire-pending-bookings\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
