package web

import (
	"net/http"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
)

// Home handles GET / and GET /home.
func (h *Handler) Home(c echo.Context) error {
	n, err := h.employees.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "home.html", pongo2.Context{"employee_count": n})
}

// Dashboard handles GET /dashboard. Admins also see the user count.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := h.employees.Count(ctx)
	if err != nil {
		return err
	}

	data := pongo2.Context{"employee_count": n}
	if middleware.IdentityFrom(c).IsAdmin() {
		users, err := h.auth.CountUsers(ctx)
		if err != nil {
			return err
		}
		data["user_count"] = users
	}
	return c.Render(http.StatusOK, "dashboard.html", data)
}

// AccessDenied handles GET /access-denied.
func (h *Handler) AccessDenied(c echo.Context) error {
	return c.Render(http.StatusForbidden, middleware.AccessDeniedView, nil)
}
