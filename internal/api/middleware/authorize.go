package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/metrics"
	"github.com/employeemgmt/empcursodemo/internal/core/policy"
)

const (
	LoginPath        = "/login"
	AccessDeniedView = "auth/access-denied.html"
)

// Authorize applies p to every request after Identity has run. API callers
// get JSON 401/403 bodies; browsers are redirected to the login page or shown
// the access-denied view.
func Authorize(p policy.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := p.Decide(c.Request().URL.Path, IdentityFrom(c))
			metrics.AuthzDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case policy.Allow:
				return next(c)
			case policy.Deny:
				if IsAPIRequest(c) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
				}
				if err := c.Render(http.StatusForbidden, AccessDeniedView, nil); err != nil {
					return c.String(http.StatusForbidden, "access denied")
				}
				return nil
			default:
				if IsAPIRequest(c) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				}
				return c.Redirect(http.StatusFound, LoginPath)
			}
		}
	}
}

// IsAPIRequest reports whether the caller expects JSON: any path with an
// "api" segment, a bearer token, or a JSON Accept header.
func IsAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || strings.Contains(path, "/api/") || strings.HasSuffix(path, "/api") {
		return true
	}
	if _, ok := bearerToken(c.Request()); ok {
		return true
	}
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
