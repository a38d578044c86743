package policy

import (
	"testing"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

func TestDecide_AdminPath(t *testing.T) {
	p := Default()
	user := &domain.Identity{UserID: 1, Username: "jdoe", Role: domain.RoleUser}
	admin := &domain.Identity{UserID: 2, Username: "root", Role: domain.RoleAdmin}

	if got := p.Decide("/admin/users", nil); got != RequireAuth {
		t.Fatalf("anonymous: expected require_auth, got %s", got)
	}
	if got := p.Decide("/admin/users", user); got != Deny {
		t.Fatalf("USER: expected deny, got %s", got)
	}
	if got := p.Decide("/admin/users", admin); got != Allow {
		t.Fatalf("ADMIN: expected allow, got %s", got)
	}
}

func TestDecide_Table(t *testing.T) {
	p := Default()
	user := &domain.Identity{UserID: 1, Username: "jdoe", Role: domain.RoleUser}

	tests := []struct {
		name     string
		path     string
		identity *domain.Identity
		want     Decision
	}{
		{"root is public", "/", nil, Allow},
		{"login is public", "/login", nil, Allow},
		{"static assets are public", "/css/site.css", nil, Allow},
		{"swagger is public", "/swagger/index.html", nil, Allow},
		{"health is public", "/health/ready", nil, Allow},
		{"api login is public", "/api/auth/login", nil, Allow},
		{"employees need auth", "/employees", nil, RequireAuth},
		{"employee api needs auth", "/employees/api/1", nil, RequireAuth},
		{"employees allowed for user", "/employees/api", user, Allow},
		{"profile allowed for user", "/profile", user, Allow},
		{"users prefix is admin", "/users/3", user, Deny},
		{"prefix does not match sibling word", "/administrator", user, RequireAuth},
		{"unknown path defaults to require auth", "/reports", user, RequireAuth},
		{"unknown path anonymous", "/reports", nil, RequireAuth},
		{"trailing slash", "/admin/", user, Deny},
		{"root exact only", "/anything", nil, RequireAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Decide(tt.path, tt.identity); got != tt.want {
				t.Fatalf("Decide(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestDecide_PublicBeatsAdmin(t *testing.T) {
	p := Policy{
		PublicPrefixes: []string{"/admin/help"},
		AdminPrefixes:  []string{"/admin"},
	}
	if got := p.Decide("/admin/help/faq", nil); got != Allow {
		t.Fatalf("expected public rule to win, got %s", got)
	}
	if got := p.Decide("/admin/panel", nil); got != RequireAuth {
		t.Fatalf("expected require_auth, got %s", got)
	}
}
