package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "cleanops-backend/internal/api/http"
	"cleanops-backend/internal/config"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/repository/kv"
	"cleanops-backend/internal/security"
	"cleanops-backend/internal/service"
	"cleanops-backend/internal/storage"
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
	logger.Info("Starting CleanOps Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize Storage
	var st storage.Store
	switch cfg.Storage.Type {
	case "", "postgres":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("Failed to ensure schema", "error", err)
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		st = pg
	case "memory":
		logger.Info("Using in-memory storage; data will not survive restarts")
		st = storage.NewMemoryStore()
	default:
		log.Fatalf("Unsupported storage type '%s'", cfg.Storage.Type)
	}

	// Initialize Repositories
	store := kv.NewStore(st)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenExpiryMinute)*time.Minute)

	// Initialize Services
	workOrderSvc := service.NewWorkOrderService(
		store.WorkOrderRepository,
		store.TransactionRepository,
		store.CollectionRepository,
		store.CustomerRepository,
	)
	recurringSvc := service.NewRecurringWorkOrderService(workOrderSvc, store.CustomerRepository)
	payrollSvc := service.NewPayrollService(
		store.PayrollRepository,
		store.PersonnelRepository,
		store.TransactionRepository,
	)

	// Initialize HTTP API
	workOrderHandler := httpapi.NewWorkOrderHandler(workOrderSvc, recurringSvc)
	payrollHandler := httpapi.NewPayrollHandler(payrollSvc)
	router := httpapi.NewRouter(tokenManager, workOrderHandler, payrollHandler)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		log.Fatalf("HTTP server failed: %v", err)
	}
}
