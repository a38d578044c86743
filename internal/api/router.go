package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/employeemgmt/empcursodemo/internal/api/handler"
	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/api/web"
	"github.com/employeemgmt/empcursodemo/internal/core/policy"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger    zerolog.Logger
	Employees ports.EmployeeService
	Auth      ports.AuthService
	Revoker   ports.TokenRevoker // nil disables token revocation
	Sessions  *session.Manager
	Renderer  echo.Renderer
	Policy    policy.Policy
	Health    []handler.Dependency

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// Prometheus default registry, which also holds the metrics package.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Renderer = d.Renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(d.Registry)))

	identity := middleware.IdentityConfig{
		Tokens:  d.Auth,
		Revoker: d.Revoker,
		Logger:  d.Logger,
	}
	if d.Sessions != nil {
		identity.Sessions = d.Sessions
	}
	e.Use(middleware.Identity(identity))
	e.Use(middleware.Authorize(d.Policy))

	// --- Probes, metrics and docs (public per policy) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/api-docs", handler.APIDocs)

	registerAPI(e, d)
	registerWeb(e, d)

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func registerAPI(e *echo.Echo, d Deps) {
	employeeHandler := handler.NewEmployeeHandler(d.Employees)
	authHandler := handler.NewAuthHandler(d.Auth, d.Revoker, d.Logger)
	adminHandler := handler.NewAdminHandler(d.Auth)

	// --- Employee API ---
	emp := e.Group("/employees/api")
	emp.GET("", employeeHandler.List)
	emp.POST("", employeeHandler.Create)
	emp.GET("/search", employeeHandler.Search)
	emp.GET("/department/:department", employeeHandler.ByDepartment)
	emp.GET("/salary/range", employeeHandler.BySalaryRange)
	emp.GET("/salary/above", employeeHandler.SalaryAbove)
	emp.GET("/count", employeeHandler.Count)
	emp.GET("/email/:email", employeeHandler.ByEmail)
	emp.GET("/:id", employeeHandler.Get)
	emp.PUT("/:id", employeeHandler.Update)
	emp.DELETE("/:id", employeeHandler.Delete)

	// --- Auth API ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/profile", authHandler.Profile)
	e.PUT("/api/profile", authHandler.UpdateProfile)
	e.POST("/api/profile/password", authHandler.ChangePassword)

	// --- Admin API ---
	admin := e.Group("/admin/api")
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/username/:username", adminHandler.UserByUsername)
	admin.POST("/users/:id/toggle", adminHandler.ToggleUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
}

func registerWeb(e *echo.Echo, d Deps) {
	h := web.NewHandler(d.Employees, d.Auth, d.Sessions, d.Logger)

	e.GET("/", h.Home)
	e.GET("/home", h.Home)
	e.GET("/dashboard", h.Dashboard)
	e.GET("/access-denied", h.AccessDenied)

	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.POST("/logout", h.Logout)
	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)

	e.GET("/profile", h.Profile)
	e.POST("/profile/update", h.UpdateProfile)
	e.GET("/change-password", h.ChangePasswordPage)
	e.POST("/change-password", h.ChangePassword)

	e.GET("/employees", h.Employees)
	e.POST("/employees", h.CreateEmployee)
	e.GET("/employees/new", h.NewEmployee)
	e.GET("/employees/search", h.SearchEmployees)
	e.GET("/employees/department/:department", h.EmployeesByDepartment)
	e.GET("/employees/:id", h.EmployeeDetails)
	e.POST("/employees/:id", h.UpdateEmployee)
	e.GET("/employees/:id/edit", h.EditEmployee)
	e.GET("/employees/:id/delete", h.DeleteEmployee)
	e.POST("/employees/:id/delete", h.DeleteEmployee)

	e.GET("/admin/users", h.Users)
	e.POST("/admin/users/:id/toggle", h.ToggleUser)
}
