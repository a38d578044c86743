package ports

import (
	"context"
	"time"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

// UserRepository persists credential records. Implementations must enforce
// unique username and email and map violations to domain.ErrDuplicateUsername
// and domain.ErrDuplicateEmail respectively.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update overwrites profile fields, password hash, role and status flags.
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
