package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

var (
	jdoe = &domain.Identity{UserID: 2, Username: "jdoe", Role: domain.RoleUser}
	root = &domain.Identity{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
)

func TestLogin_SuccessStartsSession(t *testing.T) {
	f := newFixture()
	f.auth.authenticateFn = func(_ context.Context, username, password string) (*domain.Identity, error) {
		if username != "jdoe" || password != "secret1" {
			t.Fatalf("unexpected credentials %q/%q", username, password)
		}
		return jdoe, nil
	}

	c, rec := f.form("/login", url.Values{"username": {"jdoe"}, "password": {"secret1"}}, nil)
	if err := f.h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	got := f.sessions.Identity(nextRequest(rec))
	if got == nil || *got != *jdoe {
		t.Fatalf("expected session identity %+v, got %+v", jdoe, got)
	}
	if msgs := f.flashes(rec)[session.FlashSuccess]; len(msgs) != 1 || msgs[0] != "Welcome back, jdoe!" {
		t.Fatalf("unexpected flashes: %v", msgs)
	}
}

func TestLogin_BadCredentialsRerenders(t *testing.T) {
	for _, failure := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		f := newFixture()
		f.auth.authenticateFn = func(context.Context, string, string) (*domain.Identity, error) {
			return nil, failure
		}

		c, rec := f.form("/login", url.Values{"username": {"jdoe"}, "password": {"nope"}}, nil)
		if err := f.h.Login(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK || f.views.name != viewLogin {
			t.Fatalf("expected login view, got %d %q", rec.Code, f.views.name)
		}
		if f.views.data["error"] != "Invalid username or password" || f.views.data["username"] != "jdoe" {
			t.Fatalf("unexpected view data: %v", f.views.data)
		}
		if f.sessions.Identity(nextRequest(rec)) != nil {
			t.Fatal("failed login must not start a session")
		}
	}
}

func TestLogin_StoreErrorPropagates(t *testing.T) {
	f := newFixture()
	boom := errors.New("db down")
	f.auth.authenticateFn = func(context.Context, string, string) (*domain.Identity, error) {
		return nil, boom
	}

	c, _ := f.form("/login", url.Values{"username": {"jdoe"}, "password": {"x"}}, nil)
	if err := f.h.Login(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestLoginPage_RedirectsAuthenticatedUser(t *testing.T) {
	f := newFixture()

	c, rec := f.get("/login", jdoe)
	if err := f.h.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLogout_ClearsIdentityAndFlashes(t *testing.T) {
	f := newFixture()
	f.auth.authenticateFn = func(context.Context, string, string) (*domain.Identity, error) { return jdoe, nil }

	c, rec := f.form("/login", url.Values{"username": {"jdoe"}, "password": {"secret1"}}, nil)
	if err := f.h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	req := nextRequest(rec)
	req.Method = http.MethodPost
	c, out := f.context(req, nil)
	if err := f.h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %q", out.Header().Get("Location"))
	}
	if f.sessions.Identity(nextRequest(out)) != nil {
		t.Fatal("expected anonymous session after logout")
	}
	msgs := f.flashes(out)[session.FlashSuccess]
	if len(msgs) == 0 || msgs[len(msgs)-1] != "You have been logged out successfully." {
		t.Fatalf("unexpected flashes: %v", msgs)
	}
	if f.sessions.Identity(nextRequest(rec)) != nil {
		t.Fatal("expected the pre-logout cookie to stop authenticating")
	}
}

func TestRegister_PasswordMismatchRerenders(t *testing.T) {
	f := newFixture()
	f.auth.registerFn = func(context.Context, ports.RegisterInput) (*domain.User, error) {
		t.Fatal("register must not be called")
		return nil, nil
	}

	c, rec := f.form("/register", url.Values{
		"username":        {"jdoe"},
		"email":           {"jdoe@x.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret2"},
	}, nil)
	if err := f.h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || f.views.name != viewRegister {
		t.Fatalf("expected register view, got %d %q", rec.Code, f.views.name)
	}
	if f.views.data["error"] != "confirmPassword must match password" {
		t.Fatalf("unexpected error: %v", f.views.data["error"])
	}
	form, _ := f.views.data["form"].(registerForm)
	if form.Username != "jdoe" || form.Password != "" {
		t.Fatalf("expected username kept and password cleared, got %+v", form)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture()
	f.auth.registerFn = func(context.Context, ports.RegisterInput) (*domain.User, error) {
		return nil, domain.ErrDuplicateUsername
	}

	c, _ := f.form("/register", url.Values{
		"username":        {"jdoe"},
		"email":           {"jdoe@x.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}, nil)
	if err := f.h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if f.views.data["error"] != "Username already exists" {
		t.Fatalf("unexpected error: %v", f.views.data["error"])
	}
}

func TestRegister_SuccessRedirectsToLogin(t *testing.T) {
	f := newFixture()
	f.auth.registerFn = func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
		if in.Username != "jdoe" || in.FirstName != "John" {
			t.Fatalf("unexpected input: %+v", in)
		}
		return &domain.User{ID: 5, Username: in.Username}, nil
	}

	c, rec := f.form("/register", url.Values{
		"username":        {"jdoe"},
		"email":           {"jdoe@x.com"},
		"firstName":       {"John"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}, nil)
	if err := f.h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if msgs := f.flashes(rec)[session.FlashSuccess]; len(msgs) != 1 {
		t.Fatalf("expected one success flash, got %v", msgs)
	}
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	f := newFixture()
	f.auth.changePasswordFn = func(_ context.Context, id int64, oldPw, newPw string) (bool, error) {
		if id != jdoe.UserID || oldPw != "wrong" || newPw != "newsecret" {
			t.Fatalf("unexpected call %d %q %q", id, oldPw, newPw)
		}
		return false, nil
	}

	c, rec := f.form("/change-password", url.Values{
		"currentPassword": {"wrong"},
		"newPassword":     {"newsecret"},
		"confirmPassword": {"newsecret"},
	}, jdoe)
	if err := f.h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || f.views.data["error"] != "Current password is incorrect" {
		t.Fatalf("unexpected result %d %v", rec.Code, f.views.data)
	}
}

func TestChangePassword_TooShort(t *testing.T) {
	f := newFixture()

	c, _ := f.form("/change-password", url.Values{
		"currentPassword": {"secret1"},
		"newPassword":     {"abc"},
		"confirmPassword": {"abc"},
	}, jdoe)
	if err := f.h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if f.views.data["error"] != "newPassword must be at least 6 characters" {
		t.Fatalf("unexpected error: %v", f.views.data["error"])
	}
}

func TestChangePassword_Success(t *testing.T) {
	f := newFixture()
	f.auth.changePasswordFn = func(context.Context, int64, string, string) (bool, error) { return true, nil }

	c, rec := f.form("/change-password", url.Values{
		"currentPassword": {"secret1"},
		"newPassword":     {"newsecret"},
		"confirmPassword": {"newsecret"},
	}, jdoe)
	if err := f.h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/profile" {
		t.Fatalf("expected 303 to /profile, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
