package models

import (
	"time"

	"github.com/lib/pq"
)

// Course is a unit of teaching owned by a department.
type Course struct {
	ID           string         `db:"id" json:"id"`
	Code         string         `db:"code" json:"code"`
	Name         string         `db:"name" json:"name"`
	Credits      int            `db:"credits" json:"credits"`
	DepartmentID string         `db:"department_id" json:"departmentId"`
	FacultyID    *string        `db:"faculty_id" json:"facultyId,omitempty"`
	Semester     int            `db:"semester" json:"semester"`
	Students     pq.StringArray `db:"students" json:"students"`
	Description  string         `db:"description" json:"description"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
	Department   *DepartmentRef `db:"-" json:"department,omitempty"`
	Faculty      *UserRef       `db:"-" json:"faculty,omitempty"`
}

// Ref returns the short form of the course.
func (c *Course) Ref() *CourseRef {
	if c == nil {
		return nil
	}
	return &CourseRef{ID: c.ID, Code: c.Code, Name: c.Name, Credits: c.Credits}
}

// HasStudent reports whether the student is enrolled.
func (c *Course) HasStudent(studentID string) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// CreateCourseRequest is the payload for adding a course.
type CreateCourseRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Credits     int    `json:"credits" validate:"required,min=1,max=30"`
	Department  string `json:"department" validate:"required"`
	Faculty     string `json:"faculty"`
	Semester    int    `json:"semester" validate:"required,min=1,max=12"`
	Description string `json:"description"`
}

// UpdateCourseRequest carries a partial course update.
type UpdateCourseRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Credits     *int    `json:"credits" validate:"omitempty,min=1,max=30"`
	Department  *string `json:"department" validate:"omitempty,min=1"`
	Faculty     *string `json:"faculty" validate:"omitempty,min=1"`
	Semester    *int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Description *string `json:"description"`
}

// AssignFacultyRequest sets the teaching faculty of a course.
type AssignFacultyRequest struct {
	FacultyID string `json:"facultyId" validate:"required"`
}

// EnrollStudentsRequest adds students to a course.
type EnrollStudentsRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,required"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	DepartmentID string
	FacultyID    string
	Unassigned   bool
}
