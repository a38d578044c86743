package ports

import (
	"context"
	"time"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
)

// EmployeeInput is the DTO passed from the transport layer to EmployeeService
// for both create and update. HireDate is ignored on update.
type EmployeeInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	HireDate   *time.Time
	Salary     *float64
	Department string
}

// EmployeeService defines the use cases over the employee register.
type EmployeeService interface {
	Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id int64, in EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Search(ctx context.Context, term string) ([]*domain.Employee, error)
	ByDepartment(ctx context.Context, department string) ([]*domain.Employee, error)
	BySalaryRange(ctx context.Context, min, max float64) ([]*domain.Employee, error)
	ByDepartmentAndSalaryRange(ctx context.Context, department string, min, max float64) ([]*domain.Employee, error)
	WithSalaryGreaterThan(ctx context.Context, min float64) ([]*domain.Employee, error)
	Count(ctx context.Context) (int64, error)
}
