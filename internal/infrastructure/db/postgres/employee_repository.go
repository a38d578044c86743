package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

const employeeColumns = `id, first_name, last_name, email, phone, hire_date, salary, department`

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (first_name, last_name, email, phone, hire_date, salary, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.HireDate, e.Salary, e.Department,
	).Scan(&e.ID)
	if err != nil {
		return mapDatabaseError(err)
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
	return scanEmployee(row)
}

// Update overwrites every column except id and hire_date.
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, phone = $5, salary = $6, department = $7
		WHERE id = $1`,
		e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Salary, e.Department,
	)
	if err != nil {
		return mapDatabaseError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EmployeeRepository) List(ctx context.Context, f ports.EmployeeFilter) ([]*domain.Employee, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args := buildEmployeeQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// buildEmployeeQuery renders the filter as a parameterised WHERE clause.
func buildEmployeeQuery(f ports.EmployeeFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", n, n))
	}
	if f.Department != "" {
		add("department = $%d", f.Department)
	}
	if f.SalaryMin != nil {
		add("salary >= $%d", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		add("salary <= $%d", *f.SalaryMax)
	}
	if f.SalaryAbove != nil {
		add("salary > $%d", *f.SalaryAbove)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY id`, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.HireDate, &e.Salary, &e.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	e.HireDate = domain.DateOnly(e.HireDate)
	return &e, nil
}
