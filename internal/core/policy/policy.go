// Package policy decides whether a request path may be served to an identity.
//
// Rules are evaluated in a fixed order and the first match wins:
//
//	public       → Allow
//	admin        → Allow for ADMIN, Deny for other identities, RequireAuth when anonymous
//	authenticated → Allow for any identity, RequireAuth when anonymous
//	default      → RequireAuth
package policy

import (
	"strings"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	Allow Decision = iota
	Deny
	RequireAuth
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "require_auth"
	}
}

// Policy is an ordered set of path rules. Exact entries match only the
// path itself; prefix entries match the prefix and anything below it.
type Policy struct {
	PublicPaths           []string
	PublicPrefixes        []string
	AdminPrefixes         []string
	AuthenticatedPrefixes []string
}

// Default returns the rule set of the employee records application.
func Default() Policy {
	return Policy{
		PublicPaths: []string{
			"/", "/home", "/login", "/logout", "/register", "/access-denied",
			"/api/auth/login", "/api/auth/register",
		},
		PublicPrefixes: []string{
			"/css", "/js", "/images", "/webjars",
			"/swagger", "/api-docs", "/health", "/metrics",
		},
		AdminPrefixes: []string{"/admin", "/users"},
		AuthenticatedPrefixes: []string{
			"/employees", "/dashboard", "/profile", "/change-password", "/api",
		},
	}
}

// Decide evaluates path for identity; a nil identity is anonymous.
func (p Policy) Decide(path string, identity *domain.Identity) Decision {
	path = clean(path)

	for _, public := range p.PublicPaths {
		if path == public {
			return Allow
		}
	}
	if matchAny(path, p.PublicPrefixes) {
		return Allow
	}

	if matchAny(path, p.AdminPrefixes) {
		switch {
		case identity == nil:
			return RequireAuth
		case identity.IsAdmin():
			return Allow
		default:
			return Deny
		}
	}

	if matchAny(path, p.AuthenticatedPrefixes) {
		if identity == nil {
			return RequireAuth
		}
		return Allow
	}

	return RequireAuth
}

func matchAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// clean drops a trailing slash so "/admin/" and "/admin" are one path.
func clean(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
