package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/api/metrics"
	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const invalidLoginMessage = "invalid username or password"

type AuthHandler struct {
	authService ports.AuthService
	revoker     ports.TokenRevoker
	logger      zerolog.Logger
}

// NewAuthHandler builds the API auth handler. revoker may be nil, in which
// case logout is accepted but tokens stay valid until they expire.
func NewAuthHandler(authService ports.AuthService, revoker ports.TokenRevoker, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, revoker: revoker, logger: logger}
}

// Register creates a new USER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	identity, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, invalidLoginMessage)
		}
		return err
	}

	token, err := h.authService.IssueToken(identity)
	if err != nil {
		return err
	}
	user, err := h.authService.GetUser(ctx, identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, TokenType: "Bearer", User: toUserResponse(user)})
}

// Logout revokes the bearer token the request was made with.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return domain.ErrUnauthorized
	}

	if h.revoker != nil && claims.ID != "" {
		if err := h.revoker.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt); err != nil {
			return err
		}
		metrics.TokensRevokedTotal.Inc()
		h.logger.Info().Int64("user_id", claims.Identity.UserID).Str("jti", claims.ID).Msg("token revoked")
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the caller's account.
//
// @Summary      Current user profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes the caller's names, email and optionally password.
//
// @Summary      Update current user profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), identity.UserID, ports.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "Passwords"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/profile/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	changed, err := h.authService.ChangePassword(c.Request().Context(), identity.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	if !changed {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "current password is incorrect")
	}
	return c.NoContent(http.StatusNoContent)
}
