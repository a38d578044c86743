// Package web serves the server-rendered browser flow: login, registration,
// profile, the employee register and the admin user list.
package web

import (
	"errors"
	"net/http"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

type Handler struct {
	employees ports.EmployeeService
	auth      ports.AuthService
	sessions  *session.Manager
	logger    zerolog.Logger
}

func NewHandler(employees ports.EmployeeService, auth ports.AuthService, sessions *session.Manager, logger zerolog.Logger) *Handler {
	return &Handler{employees: employees, auth: auth, sessions: sessions, logger: logger}
}

// ViewContext supplies the values every page reads: the current identity
// and pending flash messages.
func ViewContext(sessions *session.Manager) func(c echo.Context) pongo2.Context {
	return func(c echo.Context) pongo2.Context {
		identity := middleware.IdentityFrom(c)
		ctx := pongo2.Context{
			"identity": identity,
			"is_admin": identity.IsAdmin(),
		}
		if sessions != nil {
			ctx["flashes"] = sessions.Flashes(c.Response(), c.Request())
		}
		return ctx
	}
}

func (h *Handler) flash(c echo.Context, kind, msg string) {
	if err := h.sessions.AddFlash(c.Response(), c.Request(), kind, msg); err != nil {
		h.logger.Warn().Err(err).Msg("failed to store flash message")
	}
}

// redirectWith queues a flash and redirects with 303 so the browser
// follows up with a GET.
func (h *Handler) redirectWith(c echo.Context, to, kind, msg string) error {
	h.flash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

// formError renders a user-facing message for service errors a form can
// recover from. ok is false for anything unexpected.
func formError(err error) (msg string, ok bool) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error(), true
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "Email already exists", true
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "Username already exists", true
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		if s, isString := he.Message.(string); isString {
			return s, true
		}
	}
	return "", false
}
