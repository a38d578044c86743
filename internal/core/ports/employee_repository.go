package ports

import (
	"context"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

// EmployeeFilter carries the optional predicates for listing employees.
// All set predicates are ANDed together; a zero filter matches every row.
type EmployeeFilter struct {
	Name        string   // case-insensitive substring on first OR last name
	Department  string   // exact match
	SalaryMin   *float64 // salary >= SalaryMin
	SalaryMax   *float64 // salary <= SalaryMax
	SalaryAbove *float64 // salary > SalaryAbove
}

// EmployeeRepository persists employees. Implementations must enforce a
// unique constraint on email and report a violation as domain.ErrDuplicateEmail.
type EmployeeRepository interface {
	// Create inserts e and sets its ID.
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	// Update overwrites every mutable column of the row identified by e.ID.
	Update(ctx context.Context, e *domain.Employee) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, error)
	Count(ctx context.Context) (int64, error)
}
