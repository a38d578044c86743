package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
)

func TestMapDatabaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, domain.ErrDuplicateUsername},
		{"user email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, domain.ErrDuplicateEmail},
		{"employee email wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"}), domain.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDatabaseError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	other := &pgconn.PgError{Code: "23503", ConstraintName: "fk"}
	if got := mapDatabaseError(other); got != error(other) {
		t.Fatalf("expected unrelated error untouched, got %v", got)
	}
}

func TestBuildEmployeeQuery(t *testing.T) {
	query, args := buildEmployeeQuery(ports.EmployeeFilter{})
	if query != `SELECT `+employeeColumns+` FROM employees ORDER BY id` || len(args) != 0 {
		t.Fatalf("unexpected unfiltered query: %s %v", query, args)
	}

	lo, hi := 100.0, 200.0
	query, args = buildEmployeeQuery(ports.EmployeeFilter{Name: "50%_jo", Department: "IT", SalaryMin: &lo, SalaryMax: &hi})
	want := `SELECT ` + employeeColumns + ` FROM employees WHERE (first_name ILIKE $1 OR last_name ILIKE $1) AND department = $2 AND salary >= $3 AND salary <= $4 ORDER BY id`
	if query != want {
		t.Fatalf("unexpected query:\n got %s\nwant %s", query, want)
	}
	if len(args) != 4 || args[0] != `%50\%\_jo%` || args[1] != "IT" || args[2] != lo || args[3] != hi {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestWithTimeout(t *testing.T) {
	start := time.Now()
	ctx, cancel := withTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on repository calls")
	}
	if deadline.After(start.Add(defaultTimeout + time.Second)) {
		t.Fatalf("deadline %v exceeds the default timeout", deadline)
	}

	parent, cancelParent := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelParent()
	tight, cancelTight := withTimeout(parent)
	defer cancelTight()

	want, _ := parent.Deadline()
	if got, _ := tight.Deadline(); !got.Equal(want) {
		t.Fatalf("expected the caller's tighter deadline %v, got %v", want, got)
	}
}
