package models

import "fmt"

// Account is the role-specific part of a user. Exactly one variant applies to any user and each
// variant carries its own mandatory field set.
type Account interface {
	Role() UserRole
}

// AdminAccount requires a login email.
type AdminAccount struct {
	Email string `validate:"required,email"`
}

// FacultyAccount requires a department and an employee id.
type FacultyAccount struct {
	DepartmentID string `validate:"required"`
	EmployeeID   string `validate:"required"`
}

// StudentAccount requires a department, an enrollment number and a semester.
type StudentAccount struct {
	DepartmentID     string `validate:"required"`
	EnrollmentNumber string `validate:"required"`
	Semester         int    `validate:"required,min=1,max=12"`
}

func (AdminAccount) Role() UserRole   { return RoleAdmin }
func (FacultyAccount) Role() UserRole { return RoleFaculty }
func (StudentAccount) Role() UserRole { return RoleStudent }

// AccountOf resolves the variant of u from its role discriminator.
func AccountOf(u *User) (Account, error) {
	switch u.Role {
	case RoleAdmin:
		return AdminAccount{Email: u.Email}, nil
	case RoleFaculty:
		return FacultyAccount{DepartmentID: deref(u.DepartmentID), EmployeeID: deref(u.EmployeeID)}, nil
	case RoleStudent:
		semester := 0
		if u.Semester != nil {
			semester = *u.Semester
		}
		return StudentAccount{
			DepartmentID:     deref(u.DepartmentID),
			EnrollmentNumber: deref(u.EnrollmentNumber),
			Semester:         semester,
		}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", u.Role)
	}
}

// DropForeignFields clears the variant fields that do not belong to the user's role.
func (u *User) DropForeignFields() {
	if u.Role != RoleStudent {
		u.EnrollmentNumber = nil
		u.Semester = nil
	}
	if u.Role != RoleFaculty {
		u.EmployeeID = nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
