package web

import (
	"net/http"
	"strconv"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
)

const viewAdminUsers = "admin/users.html"

// Users handles GET /admin/users.
func (h *Handler) Users(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, viewAdminUsers, pongo2.Context{"users": users})
}

// ToggleUser handles POST /admin/users/:id/toggle.
func (h *Handler) ToggleUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return h.redirectWith(c, "/admin/users", session.FlashError, "User not found")
	}
	if identity := middleware.IdentityFrom(c); identity != nil && identity.UserID == id {
		return h.redirectWith(c, "/admin/users", session.FlashError, "You cannot disable your own account")
	}

	ok, err := h.auth.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return h.redirectWith(c, "/admin/users", session.FlashError, "User not found")
	}
	return h.redirectWith(c, "/admin/users", session.FlashSuccess, "User status updated successfully!")
}
