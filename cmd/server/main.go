package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "sarasavi-library-backend/internal/api/http"
	"sarasavi-library-backend/internal/config"
	"sarasavi-library-backend/internal/logger"
	"sarasavi-library-backend/internal/repository/postgres"
	"sarasavi-library-backend/internal/security"
	"sarasavi-library-backend/internal/service"
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
	logger.Info("Starting Sarasavi Library Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

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

	// Apply schema migrations
	if err := postgres.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.TokenExpiry)*time.Minute,
	)

	// Initialize Services
	notifier := service.NewEmailNotifier(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	catalogSvc := service.NewCatalogService(store)
	membershipSvc := service.NewMembershipService(store)
	lendingSvc := service.NewLendingService(store)
	reservationSvc := service.NewReservationService(store)
	returnSvc := service.NewReturnService(store, notifier)
	authSvc := service.NewAuthService(cfg.StationCredentials(), tokenManager)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Catalog:      catalogSvc,
		Membership:   membershipSvc,
		Lending:      lendingSvc,
		Reservations: reservationSvc,
		Returns:      returnSvc,
		Auth:         authSvc,
		Tokens:       tokenManager,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
