package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/policy"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

// routerAuth accepts the bearer tokens "user-token" and "admin-token".
type routerAuth struct {
	ports.AuthService
}

func (routerAuth) ParseToken(token string) (*ports.TokenClaims, error) {
	switch token {
	case "user-token":
		return &ports.TokenClaims{ID: "u", Identity: domain.Identity{UserID: 2, Username: "jdoe", Role: domain.RoleUser}}, nil
	case "admin-token":
		return &ports.TokenClaims{ID: "a", Identity: domain.Identity{UserID: 1, Username: "admin", Role: domain.RoleAdmin}}, nil
	}
	return nil, domain.ErrUnauthorized
}

func (routerAuth) ListUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: 1, Username: "admin", Role: domain.RoleAdmin, Enabled: true}}, nil
}

func (routerAuth) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	if username == "admin" {
		return &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, Enabled: true}, nil
	}
	return nil, domain.ErrUserNotFound
}

type routerEmployees struct {
	ports.EmployeeService
}

func (routerEmployees) Count(context.Context) (int64, error) { return 3, nil }

func (routerEmployees) GetByEmail(context.Context, string) (*domain.Employee, error) {
	return nil, domain.ErrEmployeeNotFound
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Logger:    zerolog.Nop(),
		Employees: routerEmployees{},
		Auth:      routerAuth{},
		Sessions:  session.NewManager("router-test-secret-0123456789", false, nil),
		Policy:    policy.Default(),
		Registry:  prometheus.NewRegistry(),
	})
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Gate(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		name     string
		method   string
		target   string
		token    string
		code     int
		location string
	}{
		{"liveness is public", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"api docs redirect", http.MethodGet, "/api-docs", "", http.StatusFound, "/swagger/index.html"},
		{"anonymous api call", http.MethodGet, "/employees/api/count", "", http.StatusUnauthorized, ""},
		{"anonymous browser call", http.MethodGet, "/dashboard", "", http.StatusFound, "/login"},
		{"invalid token is anonymous", http.MethodGet, "/employees/api/count", "forged", http.StatusUnauthorized, ""},
		{"user reads employees", http.MethodGet, "/employees/api/count", "user-token", http.StatusOK, ""},
		{"user denied admin api", http.MethodGet, "/admin/api/users", "user-token", http.StatusForbidden, ""},
		{"admin lists users", http.MethodGet, "/admin/api/users", "admin-token", http.StatusOK, ""},
		{"anonymous admin page", http.MethodGet, "/admin/users", "", http.StatusFound, "/login"},
		{"user looks up by email", http.MethodGet, "/employees/api/email/nobody@x.com", "user-token", http.StatusNotFound, ""},
		{"user denied username lookup", http.MethodGet, "/admin/api/users/username/admin", "user-token", http.StatusForbidden, ""},
		{"admin looks up by username", http.MethodGet, "/admin/api/users/username/admin", "admin-token", http.StatusOK, ""},
		{"admin unknown username", http.MethodGet, "/admin/api/users/username/ghost", "admin-token", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.target, tt.token)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d (%s)", tt.code, rec.Code, rec.Body.String())
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Fatalf("expected Location %q, got %q", tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouter_DeniedAPIBodyIsJSON(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/admin/api/users", "user-token")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "access denied" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_CountBody(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/employees/api/count", "user-token")
	if strings.TrimSpace(rec.Body.String()) != "3" {
		t.Fatalf("expected count 3, got %q", rec.Body.String())
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h := newTestRouter()
	serve(h, http.MethodGet, "/health", "")

	rec := serve(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatal("expected HTTP request counter in metrics output")
	}
}
