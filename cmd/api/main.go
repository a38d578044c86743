// Command api serves the employee records application: the JSON API under
// /employees/api, /api and /admin/api plus the browser pages.
//
//	@title						Employee Management System API
//	@version					1.0.0
//	@description				Employee records with role-based access control. API routes accept a bearer token from /api/auth/login.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/employeemgmt/empcursodemo/docs"
	"github.com/employeemgmt/empcursodemo/internal/api"
	"github.com/employeemgmt/empcursodemo/internal/api/handler"
	"github.com/employeemgmt/empcursodemo/internal/api/render"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/api/web"
	"github.com/employeemgmt/empcursodemo/internal/core/policy"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
	"github.com/employeemgmt/empcursodemo/internal/core/service"
	mongostore "github.com/employeemgmt/empcursodemo/internal/infrastructure/db/mongo"
	pgstore "github.com/employeemgmt/empcursodemo/internal/infrastructure/db/postgres"
	redisstore "github.com/employeemgmt/empcursodemo/internal/infrastructure/db/redis"
	"github.com/employeemgmt/empcursodemo/internal/infrastructure/memory"
	"github.com/employeemgmt/empcursodemo/internal/pkg/config"
	"github.com/employeemgmt/empcursodemo/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "employees",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	health := []handler.Dependency{st.health}

	var revoker ports.TokenRevoker
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		revoker = redisstore.NewTokenRevoker(rdb)
		health = append(health, handler.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	} else {
		revoker = memory.NewTokenRevoker()
		log.Warn().Msg("REDIS_ADDR not set: logout revocation is process-local")
	}

	employees := service.NewEmployeeService(st.employees, log)
	auth := service.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL, log)

	if cfg.Admin.Password != "" {
		admin, err := auth.EnsureAdmin(ctx, ports.RegisterInput{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Info().Str("username", admin.Username).Msg("admin account ready")
	}

	sessions := session.NewManager(cfg.SessionSecret, !cfg.IsDevelopment(), revoker)
	renderer, err := render.New(cfg.IsDevelopment(), web.ViewContext(sessions))
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Logger:    log,
		Employees: employees,
		Auth:      auth,
		Revoker:   revoker,
		Sessions:  sessions,
		Renderer:  renderer,
		Policy:    policy.Default(),
		Health:    health,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type store struct {
	employees ports.EmployeeRepository
	users     ports.UserRepository
	health    handler.Dependency
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		employees := mongostore.NewEmployeeRepository(db)
		users := mongostore.NewUserRepository(db)
		if err := employees.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			employees: employees,
			users:     users,
			health: handler.Dependency{
				Name: "mongodb",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	default:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		return &store{
			employees: pgstore.NewEmployeeRepository(pool),
			users:     pgstore.NewUserRepository(pool),
			health:    handler.Dependency{Name: "postgres", Ping: pool.Ping},
			close:     pool.Close,
		}, nil
	}
}
