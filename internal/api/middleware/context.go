package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const (
	identityKey = "identity"
	claimsKey   = "token_claims"
)

// IdentityFrom returns the identity resolved for the request, or nil when
// the caller is anonymous.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityKey).(*domain.Identity)
	return identity
}

// ClaimsFrom returns the bearer token claims when the request carried one.
func ClaimsFrom(c echo.Context) *ports.TokenClaims {
	claims, _ := c.Get(claimsKey).(*ports.TokenClaims)
	return claims
}

// SetIdentity stores identity on the context.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}
