package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleFaculty UserRole = "faculty"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// UserStatus toggles whether an account may log in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents an application user stored in the users table.
type User struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Email            string         `db:"email" json:"email,omitempty"`
	PasswordHash     string         `db:"password_hash" json:"-"`
	Role             UserRole       `db:"role" json:"role"`
	DepartmentID     *string        `db:"department_id" json:"departmentId,omitempty"`
	EnrollmentNumber *string        `db:"enrollment_number" json:"enrollmentNumber,omitempty"`
	EmployeeID       *string        `db:"employee_id" json:"employeeId,omitempty"`
	Semester         *int           `db:"semester" json:"semester,omitempty"`
	Status           UserStatus     `db:"status" json:"status"`
	Phone            string         `db:"phone" json:"phone,omitempty"`
	Address          string         `db:"address" json:"address,omitempty"`
	Gender           string         `db:"gender" json:"gender,omitempty"`
	DOB              *time.Time     `db:"dob" json:"dob,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
	Department       *DepartmentRef `db:"-" json:"department,omitempty"`
}

// Ref returns the short form of the user embedded in other resources.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role         *UserRole
	DepartmentID string
	Status       *UserStatus
	Search       string
	Page         int
	PageSize     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// RegisterUserRequest is the admin payload for creating an account.
type RegisterUserRequest struct {
	Name             string   `json:"name" validate:"required"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Password         string   `json:"password" validate:"required,min=6"`
	Role             UserRole `json:"role" validate:"required,oneof=admin faculty student"`
	Department       string   `json:"department"`
	EnrollmentNumber string   `json:"enrollmentNumber"`
	EmployeeID       string   `json:"employeeId"`
	Semester         int      `json:"semester" validate:"omitempty,min=1,max=12"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	Gender           string   `json:"gender"`
	DOB              string   `json:"dob"`
}

// UpdateUserRequest carries a partial profile update. The fields after DOB are only honoured for admins.
type UpdateUserRequest struct {
	Name             *string   `json:"name" validate:"omitempty,min=1"`
	Phone            *string   `json:"phone"`
	Address          *string   `json:"address"`
	Gender           *string   `json:"gender"`
	DOB              *string   `json:"dob"`
	Email            *string   `json:"email" validate:"omitempty,email"`
	Department       *string   `json:"department"`
	EmployeeID       *string   `json:"employeeId"`
	EnrollmentNumber *string   `json:"enrollmentNumber"`
	Semester         *int      `json:"semester" validate:"omitempty,min=1,max=12"`
	Role             *UserRole `json:"role" validate:"omitempty,oneof=admin faculty student"`
}

// HasPrivilegedFields reports whether the request touches admin-only fields.
func (r UpdateUserRequest) HasPrivilegedFields() bool {
	return r.Email != nil || r.Department != nil || r.EmployeeID != nil ||
		r.EnrollmentNumber != nil || r.Semester != nil || r.Role != nil
}

// UpdateUserStatusRequest toggles an account.
type UpdateUserStatusRequest struct {
	Status UserStatus `json:"status" validate:"required,oneof=active inactive"`
}
