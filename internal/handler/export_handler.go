package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/service"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type exportService interface {
	Transcript(ctx context.Context, studentID string, format service.ExportFormat) (*service.ExportResult, error)
	CourseAttendance(ctx context.Context, courseID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams downloadable reports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Transcript godoc
// @Summary Download student transcript
// @Tags Marks
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /marks/student/{studentId}/export [get]
func (h *ExportHandler) Transcript(c *gin.Context) {
	result, err := h.service.Transcript(c.Request.Context(), c.Param("studentId"), service.ExportFormat(c.Query("format")))
	h.send(c, result, err)
}

// CourseAttendance godoc
// @Summary Download course attendance sheet
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/course/{courseId}/export [get]
func (h *ExportHandler) CourseAttendance(c *gin.Context) {
	result, err := h.service.CourseAttendance(c.Request.Context(), c.Param("courseId"), service.ExportFormat(c.Query("format")))
	h.send(c, result, err)
}

func (h *ExportHandler) send(c *gin.Context, result *service.ExportResult, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
