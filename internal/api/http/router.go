package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finclutech/employee-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Employees   *handlers.EmployeesHandler
	Departments *handlers.DepartmentsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Get("/export", cfg.Employees.Export)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	departments := api.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Get("/:id/employees", cfg.Employees.ListByDepartment)
	departments.Post("/:id/employees", cfg.Employees.Create)
}
