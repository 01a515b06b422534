// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	router "finflow-tracker/internal/api"
	"finflow-tracker/internal/api/handler"
	"finflow-tracker/internal/config"
	"finflow-tracker/internal/goals"
	"finflow-tracker/internal/metrics"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/repository/memory"
	"finflow-tracker/internal/repository/postgres"
	"finflow-tracker/internal/service"
	"finflow-tracker/internal/util"
	"finflow-tracker/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	DB      *sqlx.DB // nil with the memory backend
	Metrics *metrics.Collector

	// Repositories
	TransactionRepository repository.TransactionRepository
	GoalRepository        repository.GoalRepository
	CategoryRepository    repository.CategoryRepository

	// Services
	TransactionService service.TransactionService
	GoalService        service.GoalService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads configuration from the environment and initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWith(ctx, cfg)
}

// InitializeWith initializes all application components from cfg.
func (app *Application) InitializeWith(ctx context.Context, cfg *config.AppConfig) error {
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "backend", cfg.DataBackend)

	// 3. Initialize Repositories for the configured backend
	if err := app.initRepositories(); err != nil {
		return err
	}
	app.Logger.Info("Repositories initialized.")

	// 4. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.NewCollector("finflow")
	if err := app.Metrics.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// 5. Initialize Services
	app.TransactionService = service.NewTransactionService(
		app.TransactionRepository,
		app.CategoryRepository,
		app.Metrics,
		app.Logger,
	)
	app.GoalService = service.NewGoalService(
		app.GoalRepository,
		goals.NewTracker(nil),
		app.Metrics,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	transactionHandler := handler.NewTransactionHandler(app.TransactionService, app.Logger)
	goalHandler := handler.NewGoalHandler(app.GoalService, app.Logger)
	app.HTTPHandler = router.NewRouter(transactionHandler, goalHandler, app.Metrics, registry, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initRepositories() error {
	switch app.Config.DataBackend {
	case config.BackendMemory:
		app.TransactionRepository = memory.NewTransactionStore()
		app.GoalRepository = memory.NewGoalStore()
		app.CategoryRepository = memory.NewCategoryStore()
		return nil
	case config.BackendPostgres:
		database, err := db.NewPostgresDB(app.Config.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = database
		app.Logger.Info("Database connection established.")

		if app.Config.RunMigrations {
			if err := db.RunMigrations(app.DB); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			app.Logger.Info("Database migrations applied.")
		}

		app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
		app.GoalRepository = postgres.NewGoalRepository(app.DB)
		app.CategoryRepository = postgres.NewCategoryRepository(app.DB)
		return nil
	default:
		return fmt.Errorf("unsupported data backend %q", app.Config.DataBackend)
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
