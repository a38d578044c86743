package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/middleware"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

type stubEmployeeService struct {
	ports.EmployeeService // unimplemented methods panic

	createFn    func(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error)
	updateFn    func(ctx context.Context, id int64, in ports.EmployeeInput) (*domain.Employee, error)
	deleteFn    func(ctx context.Context, id int64) (bool, error)
	getFn       func(ctx context.Context, id int64) (*domain.Employee, error)
	byEmailFn   func(ctx context.Context, email string) (*domain.Employee, error)
	listFn      func(ctx context.Context) ([]*domain.Employee, error)
	searchFn    func(ctx context.Context, term string) ([]*domain.Employee, error)
	rangeFn     func(ctx context.Context, min, max float64) ([]*domain.Employee, error)
	deptRangeFn func(ctx context.Context, dept string, min, max float64) ([]*domain.Employee, error)
	salaryAbvFn func(ctx context.Context, min float64) ([]*domain.Employee, error)
	countFn     func(ctx context.Context) (int64, error)
	byDeptFn    func(ctx context.Context, dept string) ([]*domain.Employee, error)
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

func (s *stubEmployeeService) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return s.byEmailFn(ctx, email)
}

func (s *stubEmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.listFn(ctx)
}

func (s *stubEmployeeService) Search(ctx context.Context, term string) ([]*domain.Employee, error) {
	return s.searchFn(ctx, term)
}

func (s *stubEmployeeService) ByDepartment(ctx context.Context, dept string) ([]*domain.Employee, error) {
	return s.byDeptFn(ctx, dept)
}

func (s *stubEmployeeService) BySalaryRange(ctx context.Context, min, max float64) ([]*domain.Employee, error) {
	return s.rangeFn(ctx, min, max)
}

func (s *stubEmployeeService) ByDepartmentAndSalaryRange(ctx context.Context, dept string, min, max float64) ([]*domain.Employee, error) {
	return s.deptRangeFn(ctx, dept, min, max)
}

func (s *stubEmployeeService) WithSalaryGreaterThan(ctx context.Context, min float64) ([]*domain.Employee, error) {
	return s.salaryAbvFn(ctx, min)
}

func (s *stubEmployeeService) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

type stubAuthService struct {
	ports.AuthService // unimplemented methods panic

	authenticateFn   func(ctx context.Context, username, password string) (*domain.Identity, error)
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, id int64, oldPw, newPw string) (bool, error)
	toggleFn         func(ctx context.Context, id int64) (bool, error)
	updateProfileFn  func(ctx context.Context, id int64, in ports.ProfileInput) (*domain.User, error)
	getUserFn        func(ctx context.Context, id int64) (*domain.User, error)
	byUsernameFn     func(ctx context.Context, username string) (*domain.User, error)
	listUsersFn      func(ctx context.Context) ([]*domain.User, error)
	deleteUserFn     func(ctx context.Context, id int64) (bool, error)
	issueTokenFn     func(identity *domain.Identity) (string, error)
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

func (s *stubAuthService) UpdateProfile(ctx context.Context, id int64, in ports.ProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, id, in)
}

func (s *stubAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.byUsernameFn(ctx, username)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return s.deleteUserFn(ctx, id)
}

func (s *stubAuthService) IssueToken(identity *domain.Identity) (string, error) {
	return s.issueTokenFn(identity)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a JSON request context with optional path params.
func newContext(e *echo.Echo, method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		middleware.SetIdentity(c, identity)
	}
	return c, rec
}

func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
