package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"cleanops-backend/internal/config"
	"cleanops-backend/internal/jobs"
	"cleanops-backend/internal/logger"
	"cleanops-backend/internal/repository/kv"
	"cleanops-backend/internal/scheduler"
	"cleanops-backend/internal/service"
	"cleanops-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'auto-approval-sweep', 'reconcile-recognition', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting CleanOps Cronjob Runner...", "log_level", cfg.Log.Level)

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

	pg := storage.NewPostgresStore(db)
	if err := pg.EnsureSchema(context.Background()); err != nil {
		logger.Error("Failed to ensure schema", "error", err)
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Initialize Repositories
	store := kv.NewStore(pg)

	// Initialize Services
	workOrderSvc := service.NewWorkOrderService(
		store.WorkOrderRepository,
		store.TransactionRepository,
		store.CollectionRepository,
		store.CustomerRepository,
	)
	reconSvc := service.NewReconciliationService(
		store.WorkOrderRepository,
		store.TransactionRepository,
		store.CollectionRepository,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(workOrderSvc, reconSvc, cfg)

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

	logger.Info("Shutdown signal received")
	cronScheduler.Stop()
	logger.Info("Cronjob runner stopped")
}

// runJobOnce executes a single named job and returns
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "auto-approval-sweep":
		jobRunner.AutoApprovalSweep()
	case "reconcile-recognition":
		jobRunner.ReconcileRecognition()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		log.Fatalf("Unknown job name: %s. Available jobs: auto-approval-sweep, reconcile-recognition, all-nightly", jobName)
	}
}
