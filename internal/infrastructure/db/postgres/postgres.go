package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

//go:embed schema.sql
var schema string

// Config captures the settings required to open a PostgreSQL pool.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Connect opens a pgx pool, verifies connectivity with a ping and applies the
// schema. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := pool.Exec(connectCtx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return pool, nil
}

// withTimeout bounds a single repository call by defaultTimeout. A tighter
// deadline already on ctx is kept.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}

// uniqueViolations maps constraint names from schema.sql to domain errors.
var uniqueViolations = map[string]error{
	"users_username_key":  domain.ErrDuplicateUsername,
	"users_email_key":     domain.ErrDuplicateEmail,
	"employees_email_key": domain.ErrDuplicateEmail,
}

// mapDatabaseError turns unique-constraint violations into domain errors and
// leaves every other error untouched.
func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return err
}
