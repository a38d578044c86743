package domain

import "time"

// Employee is a single row of the employee register.
type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	HireDate   time.Time
	Salary     *float64
	Department string
}

// FullName joins first and last name for display.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
