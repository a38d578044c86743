package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/employeemgmt/empcursodemo/internal/api/metrics"
	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

var fieldValidator = validator.New()

type EmployeeService struct {
	repo   ports.EmployeeRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewEmployeeService(repo ports.EmployeeRepository, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logger, now: time.Now}
}

// Create stores a new employee. The email must not belong to any existing
// employee; the store's unique constraint backs the check under concurrency.
func (s *EmployeeService) Create(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	in = normalizeEmployeeInput(in)
	if err := validateEmployeeInput(in); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		metrics.EmployeeWritesTotal.WithLabelValues("create", "conflict").Inc()
		return nil, err
	}

	hireDate := domain.DateOnly(s.now())
	if in.HireDate != nil && !in.HireDate.IsZero() {
		hireDate = domain.DateOnly(*in.HireDate)
	}

	employee := &domain.Employee{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		HireDate:   hireDate,
		Salary:     in.Salary,
		Department: in.Department,
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.EmployeeWritesTotal.WithLabelValues("create", "conflict").Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create employee")
		return nil, fmt.Errorf("create employee: %w", err)
	}

	metrics.EmployeeWritesTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Int64("employee_id", employee.ID).Str("department", employee.Department).Msg("employee created")
	return employee, nil
}

// Update overwrites the mutable fields of an existing employee. A missing id
// is reported before the input is validated. ID and hire date are never
// touched, so applying the same input twice is a no-op.
func (s *EmployeeService) Update(ctx context.Context, id int64, in ports.EmployeeInput) (*domain.Employee, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in = normalizeEmployeeInput(in)
	if err := validateEmployeeInput(in); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		metrics.EmployeeWritesTotal.WithLabelValues("update", "conflict").Inc()
		return nil, err
	}

	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Salary = in.Salary
	existing.Department = in.Department

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("employee_id", id).Msg("failed to update employee")
		return nil, fmt.Errorf("update employee: %w", err)
	}

	metrics.EmployeeWritesTotal.WithLabelValues("update", "ok").Inc()
	s.logger.Info().Int64("employee_id", id).Msg("employee updated")
	return existing, nil
}

// Delete removes the employee and reports whether it existed.
func (s *EmployeeService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	if deleted {
		metrics.EmployeeWritesTotal.WithLabelValues("delete", "ok").Inc()
		s.logger.Info().Int64("employee_id", id).Msg("employee deleted")
	}
	return deleted, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.List(ctx, ports.EmployeeFilter{})
}

// Search matches term case-insensitively against first or last name.
func (s *EmployeeService) Search(ctx context.Context, term string) ([]*domain.Employee, error) {
	return s.repo.List(ctx, ports.EmployeeFilter{Name: strings.TrimSpace(term)})
}

func (s *EmployeeService) ByDepartment(ctx context.Context, department string) ([]*domain.Employee, error) {
	return s.repo.List(ctx, ports.EmployeeFilter{Department: department})
}

// BySalaryRange returns employees whose salary lies in [min, max].
func (s *EmployeeService) BySalaryRange(ctx context.Context, min, max float64) ([]*domain.Employee, error) {
	if min > max {
		return nil, domain.NewValidationError("minSalary", "must not exceed maxSalary")
	}
	return s.repo.List(ctx, ports.EmployeeFilter{SalaryMin: &min, SalaryMax: &max})
}

func (s *EmployeeService) ByDepartmentAndSalaryRange(ctx context.Context, department string, min, max float64) ([]*domain.Employee, error) {
	if min > max {
		return nil, domain.NewValidationError("minSalary", "must not exceed maxSalary")
	}
	return s.repo.List(ctx, ports.EmployeeFilter{Department: department, SalaryMin: &min, SalaryMax: &max})
}

// WithSalaryGreaterThan returns employees earning strictly more than min.
func (s *EmployeeService) WithSalaryGreaterThan(ctx context.Context, min float64) ([]*domain.Employee, error) {
	return s.repo.List(ctx, ports.EmployeeFilter{SalaryAbove: &min})
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ensureEmailFree fails with ErrDuplicateEmail when email belongs to an
// employee other than selfID. selfID 0 means "no employee yet".
func (s *EmployeeService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil
		}
		return fmt.Errorf("check employee email: %w", err)
	}
	if other.ID != selfID {
		return domain.ErrDuplicateEmail
	}
	return nil
}

func normalizeEmployeeInput(in ports.EmployeeInput) ports.EmployeeInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Department = strings.TrimSpace(in.Department)
	return in
}

func validateEmployeeInput(in ports.EmployeeInput) error {
	switch {
	case in.FirstName == "":
		return domain.NewValidationError("first_name", "is required")
	case in.LastName == "":
		return domain.NewValidationError("last_name", "is required")
	case in.Email == "":
		return domain.NewValidationError("email", "is required")
	}
	if err := fieldValidator.Var(in.Email, "email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email")
	}
	if in.Salary != nil && *in.Salary < 0 {
		return domain.NewValidationError("salary", "must not be negative")
	}
	return nil
}
