package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	categoryhandler "github.com/FACorreiaa/expense-tracker/internal/domain/category/handler"
	"github.com/FACorreiaa/expense-tracker/internal/domain/dashboard"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/classifier"
	importhandler "github.com/FACorreiaa/expense-tracker/internal/domain/import/handler"
	importservice "github.com/FACorreiaa/expense-tracker/internal/domain/import/service"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	transactionhandler "github.com/FACorreiaa/expense-tracker/internal/domain/transaction/handler"

	"github.com/FACorreiaa/expense-tracker/pkg/config"
	"github.com/FACorreiaa/expense-tracker/pkg/cron"
	"github.com/FACorreiaa/expense-tracker/pkg/db"
	"github.com/FACorreiaa/expense-tracker/pkg/metrics"
	"github.com/FACorreiaa/expense-tracker/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	DB       *db.DB
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// Repositories
	CategoryRepo    *category.PostgresRepository
	TransactionRepo *transaction.PostgresRepository
	DashboardRepo   *dashboard.PostgresRepository

	// Services
	TransactionService *transaction.Service
	DashboardService   *dashboard.Service
	ImportService      *importservice.ImportService
	ImportMetrics      *metrics.ImportMetrics
	HTTPMetrics        *metrics.HTTPMetrics
	FileStorage        storage.Storage
	Scheduler          *cron.Scheduler

	// Handlers
	CategoryHandler    *categoryhandler.CategoryHandler
	TransactionHandler *transactionhandler.TransactionHandler
	DashboardHandler   *dashboard.Handler
	ImportHandler      *importhandler.ImportHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.wireRepositories(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

func (d *Dependencies) wireRepositories(conn db.DBTX) {
	d.CategoryRepo = category.NewPostgresRepository(conn)
	d.TransactionRepo = transaction.NewPostgresRepository(conn)
	d.DashboardRepo = dashboard.NewPostgresRepository(conn)
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	d.TransactionService = transaction.NewService(d.TransactionRepo, d.CategoryRepo, d.Logger)
	d.DashboardService = dashboard.NewService(d.DashboardRepo, d.TransactionRepo, d.Logger)

	keywords, err := classifier.LoadKeywords(d.Config.Import.KeywordsFile)
	if err != nil {
		return fmt.Errorf("failed to load import keywords: %w", err)
	}

	if d.Config.Observability.MetricsEnabled {
		d.ImportMetrics = metrics.NewImportMetrics(d.Registry)
		d.HTTPMetrics = metrics.NewHTTPMetrics(d.Registry)
	}

	// Import pipeline stores drafts through the transaction repository
	d.ImportService = importservice.NewImportService(d.CategoryRepo, d.TransactionRepo, classifier.New(keywords), d.Logger).
		WithMetrics(d.ImportMetrics)

	if d.Config.Import.ArchiveEnabled {
		fileStorage, err := storage.NewLocalStorage(d.Config.Storage.LocalPath)
		if err != nil {
			return fmt.Errorf("failed to init file storage: %w", err)
		}
		d.FileStorage = fileStorage
		d.Scheduler = cron.NewScheduler(fileStorage, d.Config.Import.ArchiveRetentionDays, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.CategoryHandler = categoryhandler.NewCategoryHandler(d.CategoryRepo, d.Logger)
	d.TransactionHandler = transactionhandler.NewTransactionHandler(d.TransactionService, d.Logger)
	d.DashboardHandler = dashboard.NewHandler(d.DashboardService, d.Logger)
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, d.Logger).
		WithMaxUploadBytes(d.Config.Import.MaxUploadBytes)
	if d.FileStorage != nil {
		d.ImportHandler.WithArchive(d.FileStorage)
	}

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
