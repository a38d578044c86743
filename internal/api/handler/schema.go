package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Employees ---

type employeeRequest struct {
	FirstName  string   `json:"firstName"  validate:"required,max=100"`
	LastName   string   `json:"lastName"   validate:"required,max=100"`
	Email      string   `json:"email"      validate:"required,email"`
	Phone      string   `json:"phone"      validate:"max=50"`
	HireDate   string   `json:"hireDate"   validate:"omitempty,datetime=2006-01-02"`
	Salary     *float64 `json:"salary"     validate:"omitempty,gte=0"`
	Department string   `json:"department" validate:"max=100"`
}

type employeeResponse struct {
	ID         int64    `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	HireDate   string   `json:"hireDate"`
	Salary     *float64 `json:"salary"`
	Department string   `json:"department,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	User      userResponse `json:"user"`
}

type profileRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"omitempty,min=6"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type userResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Enabled   bool       `json:"enabled"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}
