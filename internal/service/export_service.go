package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
	"github.com/noah-isme/college-erp-api/pkg/export"
)

// ExportFormat selects the rendering of a downloadable report.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult is a rendered report ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type transcriptSource interface {
	StudentSummary(ctx context.Context, studentID string) (*models.MarksSummary, bool, error)
}

type courseAttendanceSource interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Attendance, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ExportService renders transcripts and attendance sheets as CSV or PDF.
type ExportService struct {
	marks      transcriptSource
	attendance courseAttendanceSource
	users      userFinder
	courses    courseFinder
	csv        documentRenderer
	pdf        documentRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(marks transcriptSource, attendance courseAttendanceSource, users userFinder, courses courseFinder, csv, pdf documentRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{marks: marks, attendance: attendance, users: users, courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// Transcript renders a student's results and CGPA.
func (s *ExportService) Transcript(ctx context.Context, studentID string, format ExportFormat) (*ExportResult, error) {
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	summary, _, err := s.marks.StudentSummary(ctx, studentID)
	if err != nil {
		return nil, err
	}

	table := export.Dataset{Headers: []string{"Course", "Name", "Credits", "Exam", "Marks", "Percentage", "Grade"}}
	for _, m := range summary.Marks {
		row := map[string]string{
			"Exam":       string(m.ExamType),
			"Marks":      fmt.Sprintf("%s/%s", formatNumber(m.MarksObtained), formatNumber(m.TotalMarks)),
			"Percentage": formatTwoDecimals(m.Percentage),
			"Grade":      string(m.Grade),
		}
		if m.Course != nil {
			row["Course"] = m.Course.Code
			row["Name"] = m.Course.Name
			row["Credits"] = strconv.Itoa(m.Course.Credits)
		}
		table.Rows = append(table.Rows, row)
	}

	doc := export.Document{
		Title: "Transcript",
		Summary: []export.Field{
			{Label: "Student", Value: student.Name},
			{Label: "Enrollment", Value: deref(student.EnrollmentNumber)},
			{Label: "CGPA", Value: summary.CGPA},
		},
		Table: table,
	}
	return s.render(doc, format, "transcript-"+filenamePart(deref(student.EnrollmentNumber), student.ID))
}

// CourseAttendance renders the attendance sheet of a course.
func (s *ExportService) CourseAttendance(ctx context.Context, courseID string, format ExportFormat) (*ExportResult, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	records, err := s.attendance.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	table := export.Dataset{Headers: []string{"Date", "Student", "Status", "Remarks"}}
	for _, r := range records {
		student := r.StudentID
		if r.Student != nil {
			student = r.Student.Name
		}
		table.Rows = append(table.Rows, map[string]string{
			"Date":    r.Date.Format(dateLayout),
			"Student": student,
			"Status":  string(r.Status),
			"Remarks": r.Remarks,
		})
	}
	percentage, total, present := AttendancePercentage(records)

	doc := export.Document{
		Title: "Attendance " + course.Code,
		Summary: []export.Field{
			{Label: "Course", Value: course.Name},
			{Label: "Records", Value: strconv.Itoa(total)},
			{Label: "Present", Value: strconv.Itoa(present)},
			{Label: "Attendance %", Value: percentage},
		},
		Table: table,
	}
	return s.render(doc, format, "attendance-"+filenamePart(course.Code, course.ID))
}

func (s *ExportService) render(doc export.Document, format ExportFormat, name string) (*ExportResult, error) {
	var (
		renderer    documentRenderer
		contentType string
	)
	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportCSV, "":
		renderer, contentType, format = s.csv, "text/csv", ExportCSV
	case ExportPDF:
		renderer, contentType, format = s.pdf, "application/pdf", ExportPDF
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	payload, err := renderer.Render(doc)
	if err != nil {
		s.logger.Error("export render failed", zap.String("file", name), zap.Error(err))
		return nil, internalError(err, "failed to render export")
	}
	return &ExportResult{Filename: name + "." + string(format), ContentType: contentType, Payload: payload}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func filenamePart(preferred, fallback string) string {
	raw := preferred
	if raw == "" {
		raw = fallback
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, raw)
}
