package models

import "time"

// AttendanceStatus is the outcome recorded for one student on one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Attendance is a single presence record. Duplicates per (course, student, date) are allowed.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	CourseID  string           `db:"course_id" json:"courseId"`
	StudentID string           `db:"student_id" json:"studentId"`
	FacultyID string           `db:"faculty_id" json:"facultyId"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Remarks   string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
	Course    *CourseRef       `db:"-" json:"course,omitempty"`
	Student   *UserRef         `db:"-" json:"student,omitempty"`
	Faculty   *UserRef         `db:"-" json:"faculty,omitempty"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	CourseID  string
	StudentID string
}

// CreateAttendanceRequest records one attendance entry. Faculty defaults to the caller.
type CreateAttendanceRequest struct {
	Course  string           `json:"course" validate:"required"`
	Student string           `json:"student" validate:"required"`
	Faculty string           `json:"faculty"`
	Date    string           `json:"date" validate:"required"`
	Status  AttendanceStatus `json:"status" validate:"required,oneof=present absent late"`
	Remarks string           `json:"remarks"`
}

// BulkAttendanceRequest records several entries at once.
type BulkAttendanceRequest struct {
	Records []CreateAttendanceRequest `json:"attendanceRecords" validate:"required,min=1,dive"`
}

// UpdateAttendanceRequest changes the status or remarks of a record.
type UpdateAttendanceRequest struct {
	Status  *AttendanceStatus `json:"status" validate:"omitempty,oneof=present absent late"`
	Remarks *string           `json:"remarks"`
}

// AttendanceSummary is a student's attendance with the aggregated percentage.
type AttendanceSummary struct {
	Attendance []Attendance `json:"attendance"`
	Percentage string       `json:"percentage"`
	Total      int          `json:"total"`
	Present    int          `json:"present"`
}
