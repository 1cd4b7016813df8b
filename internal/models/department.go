package models

import "time"

// Department groups courses and users.
type Department struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Code             string    `db:"code" json:"code"`
	Description      string    `db:"description" json:"description"`
	HeadOfDepartment *string   `db:"head_of_department" json:"headOfDepartmentId,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
	Head             *UserRef  `db:"-" json:"headOfDepartment,omitempty"`
	Courses          []Course  `db:"-" json:"courses,omitempty"`
}

// Ref returns the short form of the department.
func (d *Department) Ref() *DepartmentRef {
	if d == nil {
		return nil
	}
	return &DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code}
}

// CreateDepartmentRequest is the payload for adding a department.
type CreateDepartmentRequest struct {
	Name             string `json:"name" validate:"required"`
	Code             string `json:"code" validate:"required,alphanum,max=16"`
	Description      string `json:"description"`
	HeadOfDepartment string `json:"headOfDepartment"`
}

// UpdateDepartmentRequest changes the descriptive fields of a department. The code is immutable.
type UpdateDepartmentRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1"`
	Description      *string `json:"description"`
	HeadOfDepartment *string `json:"headOfDepartment"`
}
