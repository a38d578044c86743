package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/api/session"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const (
	viewEmployeeList    = "employees/list.html"
	viewEmployeeForm    = "employees/form.html"
	viewEmployeeDetails = "employees/details.html"

	dateLayout = "2006-01-02"
)

// employeeForm keeps every field as the raw string the browser sent so a
// rejected form re-renders exactly as typed.
type employeeForm struct {
	FirstName  string `form:"firstName"`
	LastName   string `form:"lastName"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	HireDate   string `form:"hireDate"`
	Salary     string `form:"salary"`
	Department string `form:"department"`
}

func formFromEmployee(e *domain.Employee) employeeForm {
	f := employeeForm{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Department: e.Department,
	}
	if !e.HireDate.IsZero() {
		f.HireDate = e.HireDate.Format(dateLayout)
	}
	if e.Salary != nil {
		f.Salary = strconv.FormatFloat(*e.Salary, 'f', 2, 64)
	}
	return f
}

func (f employeeForm) input() (ports.EmployeeInput, error) {
	in := ports.EmployeeInput{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Phone:      f.Phone,
		Department: f.Department,
	}
	if s := strings.TrimSpace(f.HireDate); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return in, domain.NewValidationError("hireDate", "must be a date in the form YYYY-MM-DD")
		}
		in.HireDate = &d
	}
	if s := strings.TrimSpace(f.Salary); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return in, domain.NewValidationError("salary", "must be a number")
		}
		in.Salary = &v
	}
	return in, nil
}

func employeeID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrEmployeeNotFound
	}
	return id, nil
}

// Employees handles GET /employees.
func (h *Handler) Employees(c echo.Context) error {
	list, err := h.employees.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, viewEmployeeList, pongo2.Context{"employees": list})
}

// SearchEmployees handles GET /employees/search?searchTerm=.
func (h *Handler) SearchEmployees(c echo.Context) error {
	term := c.QueryParam("searchTerm")
	list, err := h.employees.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, viewEmployeeList, pongo2.Context{"employees": list, "search_term": term})
}

// EmployeesByDepartment handles GET /employees/department/:department.
func (h *Handler) EmployeesByDepartment(c echo.Context) error {
	department := c.Param("department")
	list, err := h.employees.ByDepartment(c.Request().Context(), department)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, viewEmployeeList, pongo2.Context{"employees": list, "department": department})
}

// NewEmployee handles GET /employees/new.
func (h *Handler) NewEmployee(c echo.Context) error {
	return c.Render(http.StatusOK, viewEmployeeForm, pongo2.Context{"form": employeeForm{}})
}

// CreateEmployee handles POST /employees.
func (h *Handler) CreateEmployee(c echo.Context) error {
	var form employeeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	in, err := form.input()
	if err == nil {
		_, err = h.employees.Create(c.Request().Context(), in)
	}
	if err != nil {
		if msg, ok := formError(err); ok {
			return c.Render(http.StatusOK, viewEmployeeForm, pongo2.Context{"form": form, "error": msg})
		}
		return err
	}
	return h.redirectWith(c, "/employees", session.FlashSuccess, "Employee created successfully!")
}

// EmployeeDetails handles GET /employees/:id.
func (h *Handler) EmployeeDetails(c echo.Context) error {
	id, err := employeeID(c)
	if err != nil {
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}

	e, err := h.employees.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
		}
		return err
	}
	return c.Render(http.StatusOK, viewEmployeeDetails, pongo2.Context{"employee": e})
}

// EditEmployee handles GET /employees/:id/edit.
func (h *Handler) EditEmployee(c echo.Context) error {
	id, err := employeeID(c)
	if err != nil {
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}

	e, err := h.employees.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
		}
		return err
	}
	return c.Render(http.StatusOK, viewEmployeeForm, pongo2.Context{"form": formFromEmployee(e), "employee_id": e.ID})
}

// UpdateEmployee handles POST /employees/:id.
func (h *Handler) UpdateEmployee(c echo.Context) error {
	id, err := employeeID(c)
	if err != nil {
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}

	var form employeeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	in, err := form.input()
	if err == nil {
		_, err = h.employees.Update(c.Request().Context(), id, in)
	}
	switch {
	case err == nil:
		return h.redirectWith(c, "/employees", session.FlashSuccess, "Employee updated successfully!")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}
	if msg, ok := formError(err); ok {
		return c.Render(http.StatusOK, viewEmployeeForm, pongo2.Context{"form": form, "employee_id": id, "error": msg})
	}
	return err
}

// DeleteEmployee handles GET and POST /employees/:id/delete.
func (h *Handler) DeleteEmployee(c echo.Context) error {
	id, err := employeeID(c)
	if err != nil {
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}

	deleted, err := h.employees.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return h.redirectWith(c, "/employees", session.FlashError, "Employee not found")
	}
	return h.redirectWith(c, "/employees", session.FlashSuccess, "Employee deleted successfully!")
}
