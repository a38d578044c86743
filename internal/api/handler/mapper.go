package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toEmployeeInput(req employeeRequest) (ports.EmployeeInput, error) {
	in := ports.EmployeeInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Salary:     req.Salary,
		Department: req.Department,
	}
	if req.HireDate != "" {
		d, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, "hireDate must be a date in the form YYYY-MM-DD")
		}
		in.HireDate = &d
	}
	return in, nil
}

// --- Domain → Response ---

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		HireDate:   e.HireDate.Format(dateLayout),
		Salary:     e.Salary,
		Department: e.Department,
	}
}

func toEmployeeResponses(list []*domain.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func toUserResponses(list []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	return out
}
