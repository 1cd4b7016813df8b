package models

import "time"

// ExamType classifies an assessment.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamEndterm    ExamType = "endterm"
	ExamQuiz       ExamType = "quiz"
	ExamAssignment ExamType = "assignment"
)

// Grade is a letter grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Points returns the grade point of a letter grade; unknown grades score zero.
func (g Grade) Points() float64 {
	switch g {
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	}
	return 0
}

// Marks is one assessment result of a student in a course.
type Marks struct {
	ID            string     `db:"id" json:"id"`
	CourseID      string     `db:"course_id" json:"courseId"`
	StudentID     string     `db:"student_id" json:"studentId"`
	FacultyID     string     `db:"faculty_id" json:"facultyId"`
	ExamType      ExamType   `db:"exam_type" json:"examType"`
	MarksObtained float64    `db:"marks_obtained" json:"marksObtained"`
	TotalMarks    float64    `db:"total_marks" json:"totalMarks"`
	Percentage    float64    `db:"percentage" json:"percentage"`
	Grade         Grade      `db:"grade" json:"grade"`
	Remarks       string     `db:"remarks" json:"remarks,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
	Course        *CourseRef `db:"-" json:"course,omitempty"`
	Student       *UserRef   `db:"-" json:"student,omitempty"`
	Faculty       *UserRef   `db:"-" json:"faculty,omitempty"`
}

// Recompute derives Percentage from the obtained and total marks. It runs on every save.
func (m *Marks) Recompute() {
	if m.TotalMarks <= 0 {
		m.Percentage = 0
		return
	}
	m.Percentage = m.MarksObtained / m.TotalMarks * 100
}

// CreateMarksRequest records an assessment result. Faculty defaults to the caller.
type CreateMarksRequest struct {
	Course        string   `json:"course" validate:"required"`
	Student       string   `json:"student" validate:"required"`
	Faculty       string   `json:"faculty"`
	ExamType      ExamType `json:"examType" validate:"required,oneof=midterm endterm quiz assignment"`
	MarksObtained *float64 `json:"marksObtained" validate:"required,gte=0"`
	TotalMarks    float64  `json:"totalMarks" validate:"required,gt=0"`
	Grade         Grade    `json:"grade" validate:"required,oneof=A B C D F"`
	Remarks       string   `json:"remarks"`
}

// UpdateMarksRequest carries a partial update of a result.
type UpdateMarksRequest struct {
	MarksObtained *float64 `json:"marksObtained" validate:"omitempty,gte=0"`
	TotalMarks    *float64 `json:"totalMarks" validate:"omitempty,gt=0"`
	Grade         *Grade   `json:"grade" validate:"omitempty,oneof=A B C D F"`
	Remarks       *string  `json:"remarks"`
}

// MarksSummary is a student's results with the credit weighted CGPA.
type MarksSummary struct {
	Marks []Marks `json:"marks"`
	CGPA  string  `json:"cgpa"`
}

// MarksFilter narrows marks listings.
type MarksFilter struct {
	CourseID  string
	StudentID string
}
