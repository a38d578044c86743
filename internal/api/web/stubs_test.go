package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/api/handler"
	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

type stubEmployeeService struct {
	ports.EmployeeService // unimplemented methods panic

	createFn func(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error)
	updateFn func(ctx context.Context, id int64, in ports.EmployeeInput) (*domain.Employee, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
	getFn    func(ctx context.Context, id int64) (*domain.Employee, error)
	countFn  func(ctx context.Context) (int64, error)
	searchFn func(ctx context.Context, term string) ([]*domain.Employee, error)
}

func (s *stubEmployeeService) Create(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	return s.createFn(ctx, in)
}

func (s *stubEmployeeService) Update(ctx context.Context, id int64, in ports.EmployeeInput) (*domain.Employee, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubEmployeeService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubEmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.getFn(ctx, id)
}

func (s *stubEmployeeService) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func (s *stubEmployeeService) Search(ctx context.Context, term string) ([]*domain.Employee, error) {
	return s.searchFn(ctx, term)
}

type stubAuthService struct {
	ports.AuthService // unimplemented methods panic

	authenticateFn   func(ctx context.Context, username, password string) (*domain.Identity, error)
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, id int64, oldPw, newPw string) (bool, error)
	toggleFn         func(ctx context.Context, id int64) (bool, error)
	countUsersFn     func(ctx context.Context) (int64, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, id int64, oldPw, newPw string) (bool, error) {
	return s.changePasswordFn(ctx, id, oldPw, newPw)
}

func (s *stubAuthService) ToggleStatus(ctx context.Context, id int64) (bool, error) {
	return s.toggleFn(ctx, id)
}

func (s *stubAuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.countUsersFn(ctx)
}

// recordingRenderer remembers the last view and its data instead of
// executing templates.
type recordingRenderer struct {
	name string
	data pongo2.Context
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.name = name
	r.data, _ = data.(pongo2.Context)
	_, err := io.WriteString(w, name)
	return err
}

type fixture struct {
	e         *echo.Echo
	views     *recordingRenderer
	sessions  *session.Manager
	employees *stubEmployeeService
	auth      *stubAuthService
	h         *Handler
}

func newFixture() *fixture {
	f := &fixture{
		e:         echo.New(),
		views:     &recordingRenderer{},
		sessions:  session.NewManager("web-test-secret-0123456789", false, nil),
		employees: &stubEmployeeService{},
		auth:      &stubAuthService{},
	}
	f.e.Renderer = f.views
	f.e.Validator = handler.NewValidator()
	f.h = NewHandler(f.employees, f.auth, f.sessions, zerolog.Nop())
	return f
}

// form builds a urlencoded POST context.
func (f *fixture) form(target string, values url.Values, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return f.context(req, identity)
}

func (f *fixture) get(target string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	return f.context(httptest.NewRequest(http.MethodGet, target, nil), identity)
}

func (f *fixture) context(req *http.Request, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if identity != nil {
		middleware.SetIdentity(c, identity)
	}
	return c, rec
}

// nextRequest carries the cookies a response set into a follow-up GET.
// A handler may save the session more than once; like a browser, only the
// last Set-Cookie for a name is kept.
func nextRequest(rec *httptest.ResponseRecorder) *http.Request {
	latest := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		latest[c.Name] = c
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range latest {
		req.AddCookie(c)
	}
	return req
}

// flashes reads back the flash messages a response queued.
func (f *fixture) flashes(rec *httptest.ResponseRecorder) map[string][]string {
	return f.sessions.Flashes(httptest.NewRecorder(), nextRequest(rec))
}
