// Package bootstrap assembles the service's collaborators from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/finclutech/employee-service/internal/api/http"
	"github.com/finclutech/employee-service/internal/api/http/handlers"
	"github.com/finclutech/employee-service/internal/config"
	"github.com/finclutech/employee-service/internal/events"
	"github.com/finclutech/employee-service/internal/observability"
	"github.com/finclutech/employee-service/internal/persistence"
	"github.com/finclutech/employee-service/internal/repository"
	"github.com/finclutech/employee-service/internal/repository/gormstore"
	"github.com/finclutech/employee-service/internal/repository/memstore"
	"github.com/finclutech/employee-service/internal/service"
	"github.com/finclutech/employee-service/internal/worker"
)

// App holds the wired services and the resources they depend on.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       repository.Store
	Redis       *persistence.Redis
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Employees   *service.EmployeeService
	Departments *service.DepartmentService

	closers []func()
}

// New opens the configured store, connects redis when enabled and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Redis = persistence.NewRedis(cfg.Redis, logger)
	a.closers = append(a.closers, a.Redis.Close)

	a.Dispatcher = events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(a.Dispatcher, a.Redis, logger, cfg.Events)

	deps := service.Dependencies{Store: a.Store, Dispatcher: a.Dispatcher, Logger: logger}
	a.Employees = service.NewEmployeeService(deps)
	a.Departments = service.NewDepartmentService(deps)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Store, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), a.Logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return repository.NewPostgresStore(pg.PoolHandle()), nil
	case config.StorageDriverSQLite:
		db, err := persistence.NewSQLite(cfg.SQLite, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { persistence.CloseSQLite(db) })
		return gormstore.New(db)
	case config.StorageDriverMemory:
		a.Logger.Warn("using in-memory storage; data is lost on exit")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// HTTP builds the fiber application with middlewares and routes registered.
func (a *App) HTTP() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               a.Config.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, a.Logger, a.Metrics, a.Config.App.RequestTimeout())

	deps := map[string]handlers.Pinger{"store": a.Store, "redis": nil}
	if a.Redis != nil {
		deps["redis"] = a.Redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(a.Config.App.Name, a.Config.App.Version, deps, a.Metrics),
		Employees:   handlers.NewEmployeesHandler(a.Employees),
		Departments: handlers.NewDepartmentsHandler(a.Departments),
	})
	return app
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
