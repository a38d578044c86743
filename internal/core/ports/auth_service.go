package ports

import (
	"context"
	"time"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput carries the self-service profile fields. An empty Password
// leaves the stored hash untouched.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// TokenClaims is the decoded content of an API bearer token.
type TokenClaims struct {
	ID        string
	Identity  domain.Identity
	ExpiresAt time.Time
}

// AuthService covers authentication, registration and account management.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (bool, error)
	ToggleStatus(ctx context.Context, userID int64) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	DeleteUser(ctx context.Context, userID int64) (bool, error)

	IssueToken(identity *domain.Identity) (string, error)
	ParseToken(token string) (*TokenClaims, error)
}

// TokenRevoker records bearer tokens invalidated by logout until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
