package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/finclutech/employee-service/internal/api/http/handlers"
	"github.com/finclutech/employee-service/internal/events"
	"github.com/finclutech/employee-service/internal/export"
	"github.com/finclutech/employee-service/internal/observability"
	"github.com/finclutech/employee-service/internal/repository/memstore"
	"github.com/finclutech/employee-service/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := memstore.New()
	deps := service.Dependencies{Store: store, Dispatcher: events.NewInMemoryDispatcher(), Logger: logger}
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("employee-service", "test", map[string]handlers.Pinger{"store": store, "redis": nil}, metrics),
		Employees:   handlers.NewEmployeesHandler(service.NewEmployeeService(deps)),
		Departments: handlers.NewDepartmentsHandler(service.NewDepartmentService(deps)),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

const ada = `{"id":"E1","name":"Ada Lovelace","email":"ada@example.com","position":"Engineer","salary":50000}`

func TestEmployeeLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/departments", `{"id":"D1","name":"Engineering","location":"Berlin"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, app, http.MethodPost, "/api/departments/D1/employees", ada)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"E1","name":"Ada Lovelace","email":"ada@example.com","position":"Engineer","salary":50000,"department":"Engineering"}`, string(env.Data))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, env = do(t, app, http.MethodGet, "/api/employees/E1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"department":"Engineering"`)

	resp, env = do(t, app, http.MethodPut, "/api/employees/E1",
		`{"name":"Ada Lovelace","email":"ada@example.com","position":"Engineer","salary":60000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"salary":60000`)

	resp, env = do(t, app, http.MethodGet, "/api/departments/D1/employees", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	resp, _ = do(t, app, http.MethodDelete, "/api/employees/E1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env = do(t, app, http.MethodGet, "/api/employees/E1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "employee not found", env.Error.Message)
}

func TestEmployeeErrorsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/api/departments", `{"id":"D1","name":"Engineering"}`)
	do(t, app, http.MethodPost, "/api/departments/D1/employees", ada)

	resp, env := do(t, app, http.MethodPost, "/api/departments/D1/employees", `{"email":"bad","salary":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Len(t, env.Error.Details, 4)

	resp, env = do(t, app, http.MethodPost, "/api/departments/D1/employees",
		`{"id":"E2","name":"Ada Clone","email":"ada@example.com","position":"Engineer","salary":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	resp, env = do(t, app, http.MethodGet, "/api/departments/D9/employees", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = do(t, app, http.MethodPut, "/api/employees/E9", ada)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = do(t, app, http.MethodDelete, "/api/employees/E9", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = do(t, app, http.MethodPost, "/api/departments/D1/employees", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestListEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, env := do(t, app, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	do(t, app, http.MethodPost, "/api/departments", `{"id":"D1","name":"Engineering"}`)
	resp, env = do(t, app, http.MethodGet, "/api/departments/D1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"D1","name":"Engineering","location":"","employees":[]}`, string(env.Data))

	resp, env = do(t, app, http.MethodGet, "/api/departments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"id":"D1"`)
}

func TestExportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/api/departments", `{"id":"D1","name":"Engineering"}`)
	do(t, app, http.MethodPost, "/api/departments/D1/employees", ada)

	resp, _ := do(t, app, http.MethodGet, "/api/employees/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "employees.xlsx")
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ready map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	assert.Equal(t, map[string]any{"store": "ok", "redis": "disabled"}, ready["dependencies"])

	do(t, app, http.MethodGet, "/api/employees/missing", "")
	resp, env := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.NotEmpty(t, snap.Requests)
	assert.NotEmpty(t, snap.Errors)
}
