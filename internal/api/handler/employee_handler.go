package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

// EmployeeHandler serves the JSON employee API under /employees/api.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /employees/api.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   employeeResponse
// @Failure      401  {object}  errorResponse
// @Router       /employees/api [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// Create handles POST /employees/api.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeRequest  true  "Employee"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /employees/api [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	in, err := h.bindEmployee(c)
	if err != nil {
		return err
	}

	e, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(e))
}

// Get handles GET /employees/api/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/api/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	e, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(e))
}

// ByEmail handles GET /employees/api/email/:email.
//
// @Summary      Get an employee by email
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  employeeResponse
// @Failure      404    {object}  errorResponse
// @Router       /employees/api/email/{email} [get]
func (h *EmployeeHandler) ByEmail(c echo.Context) error {
	e, err := h.service.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(e))
}

// Update handles PUT /employees/api/:id.
//
// @Summary      Update an employee
// @Description  Overwrites every field except id and hire date.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Employee ID"
// @Param        body  body      employeeRequest  true  "Employee"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /employees/api/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.bindEmployee(c)
	if err != nil {
		return err
	}

	e, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(e))
}

// Delete handles DELETE /employees/api/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  int  true  "Employee ID"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /employees/api/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrEmployeeNotFound
	}
	return c.NoContent(http.StatusOK)
}

// Search handles GET /employees/api/search?searchTerm=.
//
// @Summary      Search employees by first or last name
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        searchTerm  query     string  true  "Case-insensitive name fragment"
// @Success      200         {array}   employeeResponse
// @Router       /employees/api/search [get]
func (h *EmployeeHandler) Search(c echo.Context) error {
	list, err := h.service.Search(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// ByDepartment handles GET /employees/api/department/:department.
//
// @Summary      List employees of a department
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        department  path      string  true  "Department"
// @Success      200         {array}   employeeResponse
// @Router       /employees/api/department/{department} [get]
func (h *EmployeeHandler) ByDepartment(c echo.Context) error {
	list, err := h.service.ByDepartment(c.Request().Context(), c.Param("department"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// BySalaryRange handles GET /employees/api/salary/range.
//
// @Summary      List employees by salary range
// @Description  Bounds are inclusive. An optional department narrows the result.
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        minSalary   query     number  true   "Lower bound"
// @Param        maxSalary   query     number  true   "Upper bound"
// @Param        department  query     string  false  "Department"
// @Success      200         {array}   employeeResponse
// @Failure      400         {object}  errorResponse
// @Router       /employees/api/salary/range [get]
func (h *EmployeeHandler) BySalaryRange(c echo.Context) error {
	minSalary, err := queryFloat(c, "minSalary")
	if err != nil {
		return err
	}
	maxSalary, err := queryFloat(c, "maxSalary")
	if err != nil {
		return err
	}

	var list []*domain.Employee
	if dept := c.QueryParam("department"); dept != "" {
		list, err = h.service.ByDepartmentAndSalaryRange(c.Request().Context(), dept, minSalary, maxSalary)
	} else {
		list, err = h.service.BySalaryRange(c.Request().Context(), minSalary, maxSalary)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// SalaryAbove handles GET /employees/api/salary/above?minSalary=.
//
// @Summary      List employees earning more than a threshold
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        minSalary  query     number  true  "Exclusive lower bound"
// @Success      200        {array}   employeeResponse
// @Failure      400        {object}  errorResponse
// @Router       /employees/api/salary/above [get]
func (h *EmployeeHandler) SalaryAbove(c echo.Context) error {
	minSalary, err := queryFloat(c, "minSalary")
	if err != nil {
		return err
	}

	list, err := h.service.WithSalaryGreaterThan(c.Request().Context(), minSalary)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// Count handles GET /employees/api/count.
//
// @Summary      Count employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {integer}  int
// @Router       /employees/api/count [get]
func (h *EmployeeHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *EmployeeHandler) bindEmployee(c echo.Context) (ports.EmployeeInput, error) {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.EmployeeInput{}, err
	}
	return toEmployeeInput(req)
}
