package render

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

func newTestRenderer(t *testing.T, globals ContextFunc) *Renderer {
	t.Helper()
	r, err := New(true, globals)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRenderer_EmployeeList(t *testing.T) {
	r := newTestRenderer(t, nil)
	salary := 75000.0
	employees := []*domain.Employee{{
		ID:         1,
		FirstName:  "John",
		LastName:   "Doe",
		Email:      "john@x.com",
		Department: "IT",
		HireDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Salary:     &salary,
	}}

	var buf bytes.Buffer
	if err := r.Render(&buf, "employees/list.html", pongo2.Context{"employees": employees}, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"John Doe", "john@x.com", "2024-03-15", "75,000.00", "/employees/1/edit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderer_EmployeeDetailsUsesFullName(t *testing.T) {
	r := newTestRenderer(t, nil)
	employee := &domain.Employee{ID: 4, FirstName: "Cher", Email: "cher@x.com"}

	var buf bytes.Buffer
	if err := r.Render(&buf, "employees/details.html", pongo2.Context{"employee": employee}, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>Cher</h1>") {
		t.Fatalf("expected heading without a trailing space:\n%s", buf.String())
	}
}

func TestRenderer_GlobalsAndEscaping(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	r := newTestRenderer(t, func(echo.Context) pongo2.Context {
		return pongo2.Context{
			"identity": &domain.Identity{UserID: 1, Username: "root", Role: domain.RoleAdmin},
			"is_admin": true,
			"flashes":  map[string][]string{"success": {"Saved <ok>"}},
		}
	})

	var buf bytes.Buffer
	if err := r.Render(&buf, "dashboard.html", map[string]any{"employee_count": 3, "user_count": 2}, c); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Welcome, root", "Employees: 3", "Users: 2", "/admin/users", "Saved &lt;ok&gt;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)
	if err := r.Render(&bytes.Buffer{}, "missing.html", nil, nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestSalaryFilter(t *testing.T) {
	v := 1234.5
	tests := []struct {
		in   any
		want string
	}{
		{&v, "1,234.50"},
		{(*float64)(nil), "-"},
		{"text", "-"},
	}
	for _, tt := range tests {
		out, err := salaryFilter(pongo2.AsValue(tt.in), nil)
		if err != nil {
			t.Fatalf("salaryFilter(%v): %v", tt.in, err)
		}
		if out.String() != tt.want {
			t.Fatalf("salaryFilter(%v) = %q, want %q", tt.in, out.String(), tt.want)
		}
	}
}
