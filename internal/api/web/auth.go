package web

import (
	"errors"
	"net/http"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const (
	viewLogin          = "auth/login.html"
	viewRegister       = "auth/register.html"
	viewProfile        = "auth/profile.html"
	viewChangePassword = "auth/change-password.html"
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerForm struct {
	Username        string `form:"username"        validate:"required,min=3,max=50"`
	Email           string `form:"email"           validate:"required,email"`
	FirstName       string `form:"firstName"       validate:"max=100"`
	LastName        string `form:"lastName"        validate:"max=100"`
	Password        string `form:"password"        validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

type profileForm struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	Password  string `form:"password"`
}

type changePasswordForm struct {
	CurrentPassword string `form:"currentPassword" validate:"required"`
	NewPassword     string `form:"newPassword"     validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// LoginPage handles GET /login.
func (h *Handler) LoginPage(c echo.Context) error {
	if middleware.IdentityFrom(c) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.Render(http.StatusOK, viewLogin, nil)
}

// Login handles POST /login. Unknown user and wrong password produce the
// same message.
func (h *Handler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	identity, err := h.auth.Authenticate(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Render(http.StatusOK, viewLogin, pongo2.Context{
				"error":    "Invalid username or password",
				"username": form.Username,
			})
		}
		return err
	}

	if err := h.sessions.Login(c.Response(), c.Request(), identity); err != nil {
		return err
	}
	return h.redirectWith(c, "/dashboard", session.FlashSuccess, "Welcome back, "+identity.Username+"!")
}

// Logout handles GET and POST /logout.
func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Response(), c.Request()); err != nil {
		return err
	}
	return h.redirectWith(c, "/login", session.FlashSuccess, "You have been logged out successfully.")
}

// RegisterPage handles GET /register.
func (h *Handler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, viewRegister, pongo2.Context{"form": registerForm{}})
}

// Register handles POST /register.
func (h *Handler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	rerender := func(msg string) error {
		form.Password, form.ConfirmPassword = "", ""
		return c.Render(http.StatusOK, viewRegister, pongo2.Context{"form": form, "error": msg})
	}

	if err := c.Validate(&form); err != nil {
		if msg, ok := formError(err); ok {
			return rerender(msg)
		}
		return err
	}

	_, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if msg, ok := formError(err); ok {
			return rerender(msg)
		}
		return err
	}

	return h.redirectWith(c, "/login", session.FlashSuccess, "Registration successful! Please log in.")
}

// Profile handles GET /profile.
func (h *Handler) Profile(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	}

	user, err := h.auth.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, viewProfile, pongo2.Context{"user": user})
}

// UpdateProfile handles POST /profile/update.
func (h *Handler) UpdateProfile(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	}

	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.auth.UpdateProfile(c.Request().Context(), identity.UserID, ports.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		if msg, ok := formError(err); ok {
			return h.redirectWith(c, "/profile", session.FlashError, msg)
		}
		return err
	}
	return h.redirectWith(c, "/profile", session.FlashSuccess, "Profile updated successfully!")
}

// ChangePasswordPage handles GET /change-password.
func (h *Handler) ChangePasswordPage(c echo.Context) error {
	return c.Render(http.StatusOK, viewChangePassword, nil)
}

// ChangePassword handles POST /change-password.
func (h *Handler) ChangePassword(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	}

	var form changePasswordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		if msg, ok := formError(err); ok {
			return c.Render(http.StatusOK, viewChangePassword, pongo2.Context{"error": msg})
		}
		return err
	}

	changed, err := h.auth.ChangePassword(c.Request().Context(), identity.UserID, form.CurrentPassword, form.NewPassword)
	if err != nil {
		return err
	}
	if !changed {
		return c.Render(http.StatusOK, viewChangePassword, pongo2.Context{"error": "Current password is incorrect"})
	}
	return h.redirectWith(c, "/profile", session.FlashSuccess, "Password changed successfully!")
}
