package domain

import "time"

// Role is the closed set of authorities a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the persisted credential record. PasswordHash and Role never leave
// the process in a JSON body; transport layers map it to their own views.
type User struct {
	ID                    int64      `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	FirstName             string     `json:"first_name,omitempty"`
	LastName              string     `json:"last_name,omitempty"`
	Role                  Role       `json:"-"`
	Enabled               bool       `json:"enabled"`
	AccountNonExpired     bool       `json:"account_non_expired"`
	CredentialsNonExpired bool       `json:"credentials_non_expired"`
	AccountNonLocked      bool       `json:"account_non_locked"`
	CreatedAt             time.Time  `json:"created_at"`
	LastLogin             *time.Time `json:"last_login,omitempty"`
}

// CanAuthenticate reports whether every account status flag permits a login.
func (u *User) CanAuthenticate() bool {
	return u.Enabled && u.AccountNonExpired && u.CredentialsNonExpired && u.AccountNonLocked
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// IdentityOf builds the session identity for a stored user.
func IdentityOf(u *User) *Identity {
	return &Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}
