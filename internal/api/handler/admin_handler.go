package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

// AdminHandler serves user management under /admin/api. The policy gate
// restricts the whole prefix to ADMIN.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers handles GET /admin/api/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/api/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// UserByUsername handles GET /admin/api/users/username/:username.
//
// @Summary      Get a user by username
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Router       /admin/api/users/username/{username} [get]
func (h *AdminHandler) UserByUsername(c echo.Context) error {
	u, err := h.authService.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// ToggleUser handles POST /admin/api/users/:id/toggle.
//
// @Summary      Enable or disable a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/api/users/{id}/toggle [post]
func (h *AdminHandler) ToggleUser(c echo.Context) error {
	id, err := h.targetID(c)
	if err != nil {
		return err
	}

	ok, err := h.authService.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser handles DELETE /admin/api/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/api/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := h.targetID(c)
	if err != nil {
		return err
	}

	deleted, err := h.authService.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

// targetID parses :id and refuses the caller's own account, so an admin
// cannot lock themselves out.
func (h *AdminHandler) targetID(c echo.Context) (int64, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return 0, err
	}
	identity, err := currentIdentity(c)
	if err != nil {
		return 0, err
	}
	if identity.UserID == id {
		return 0, domain.NewValidationError("id", "cannot modify your own account")
	}
	return id, nil
}
