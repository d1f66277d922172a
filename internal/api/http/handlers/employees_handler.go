package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/finclutech/employee-service/internal/api/dto"
	"github.com/finclutech/employee-service/internal/export"
	"github.com/finclutech/employee-service/internal/service"
)

// EmployeesHandler exposes employee endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	views, err := h.employees.ListAllEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// ListByDepartment handles GET /api/departments/:id/employees.
func (h *EmployeesHandler) ListByDepartment(c *fiber.Ctx) error {
	views, err := h.employees.ListEmployeesByDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// Get handles GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	view, err := h.employees.GetEmployeeByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Create handles POST /api/departments/:id/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.employees.AddEmployee(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// Update handles PUT /api/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	var req dto.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.employees.UpdateEmployee(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Delete handles DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Export handles GET /api/employees/export.
func (h *EmployeesHandler) Export(c *fiber.Ctx) error {
	views, err := h.employees.ListAllEmployees(c.UserContext())
	if err != nil {
		return err
	}
	data, err := export.EmployeesXLSX(views)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="employees.xlsx"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Send(data)
}
