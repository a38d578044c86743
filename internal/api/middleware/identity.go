package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

// TokenParser decodes API bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*ports.TokenClaims, error)
}

// SessionReader reads the browser session identity.
type SessionReader interface {
	Identity(r *http.Request) *domain.Identity
}

type IdentityConfig struct {
	Tokens   TokenParser
	Revoker  ports.TokenRevoker // optional
	Sessions SessionReader      // optional
	Logger   zerolog.Logger
}

// Identity resolves who is calling and stores it on the context. A valid,
// unrevoked bearer token wins; otherwise the session cookie is consulted.
// Requests with neither stay anonymous and are left to Authorize.
func Identity(cfg IdentityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c.Request()); ok {
				if claims := resolveToken(c, cfg, token); claims != nil {
					identity := claims.Identity
					SetIdentity(c, &identity)
					c.Set(claimsKey, claims)
				}
				return next(c)
			}

			if cfg.Sessions != nil {
				if identity := cfg.Sessions.Identity(c.Request()); identity != nil {
					SetIdentity(c, identity)
				}
			}
			return next(c)
		}
	}
}

func resolveToken(c echo.Context, cfg IdentityConfig, token string) *ports.TokenClaims {
	claims, err := cfg.Tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	if cfg.Revoker == nil || claims.ID == "" {
		return claims
	}

	revoked, err := cfg.Revoker.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		// Fail closed: an unverifiable token is treated as absent.
		cfg.Logger.Error().Err(err).Str("jti", claims.ID).Msg("token revocation check failed")
		return nil
	}
	if revoked {
		return nil
	}
	return claims
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
