package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/employeemgmt/empcursodemo/internal/api/metrics"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const (
	MinPasswordLength = 6
	minUsernameLength = 3
	maxUsernameLength = 50
)

// AuthService implements authentication, registration and account upkeep.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	hashCost  int
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		hashCost:  bcrypt.DefaultCost,
		logger:    logger,
		now:       time.Now,
	}
}

// Authenticate verifies a username/password pair. A disabled, locked or
// expired account fails exactly like a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("unknown_user").Inc()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanAuthenticate() {
		metrics.AuthAttemptsTotal.WithLabelValues("account_status").Inc()
		s.logger.Info().Str("username", username).Msg("login rejected by account status")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	}

	metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()
	return domain.IdentityOf(user), nil
}

// Register creates a USER account with every status flag enabled.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleUser)
}

// EnsureAdmin creates an ADMIN account unless the username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.createUser(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:              in.Username,
		Email:                 in.Email,
		PasswordHash:          string(hash),
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Role:                  role,
		Enabled:               true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		AccountNonLocked:      true,
		CreatedAt:             s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// ChangePassword replaces the stored hash when oldPassword matches. A missing
// user or a mismatch yields false without an error.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return false, err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("change password: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return true, nil
}

// ToggleStatus flips the enabled flag. It returns false if the user is absent.
func (s *AuthService) ToggleStatus(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	user.Enabled = !user.Enabled
	if err := s.repo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("toggle status: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Bool("enabled", user.Enabled).Msg("user status toggled")
	return true, nil
}

// UpdateProfile changes the self-service fields. Username and role are
// immutable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if err := fieldValidator.Var(email, "required,email"); err != nil {
		return nil, domain.NewValidationError("email", "must be a valid email")
	}
	if in.Password != "" && utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	if email != user.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, domain.ErrDuplicateEmail
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = email
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, strings.TrimSpace(username))
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *AuthService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if deleted {
		s.logger.Info().Int64("user_id", userID).Msg("user deleted")
	}
	return deleted, nil
}

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for identity.
func (s *AuthService) IssueToken(identity *domain.Identity) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: identity.Username,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates signature and expiry and decodes the identity.
func (s *AuthService) ParseToken(token string) (*ports.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrUnauthorized)
	}

	out := &ports.TokenClaims{
		ID:       claims.ID,
		Identity: domain.Identity{UserID: userID, Username: claims.Username, Role: role},
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func validateRegistration(in ports.RegisterInput) error {
	n := utf8.RuneCountInString(in.Username)
	if n < minUsernameLength || n > maxUsernameLength {
		return domain.NewValidationError("username", fmt.Sprintf("must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}
	if in.Email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if err := fieldValidator.Var(in.Email, "email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}
