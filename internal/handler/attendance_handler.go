package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type attendanceService interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateAttendanceRequest) (*models.Attendance, error)
	Bulk(ctx context.Context, actor models.Actor, req models.BulkAttendanceRequest) ([]models.Attendance, error)
	List(ctx context.Context) ([]models.Attendance, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Attendance, error)
	StudentSummary(ctx context.Context, studentID, courseID string) (*models.AttendanceSummary, bool, error)
	Update(ctx context.Context, id string, req models.UpdateAttendanceRequest) (*models.Attendance, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Create godoc
// @Summary Record attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Bulk godoc
// @Summary Record attendance in bulk
// @Description All records are stored or none
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BulkAttendanceRequest true "Attendance records"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) Bulk(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.BulkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	records, err := h.service.Bulk(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, records)
}

// List godoc
// @Summary List attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ByCourse godoc
// @Summary List attendance of a course
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/course/{courseId} [get]
func (h *AttendanceHandler) ByCourse(c *gin.Context) {
	records, err := h.service.ListByCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ByStudent godoc
// @Summary Student attendance summary
// @Description Records with the present percentage, optionally scoped to one course
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param course query string false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/student/{studentId} [get]
func (h *AttendanceHandler) ByStudent(c *gin.Context) {
	summary, hit, err := h.service.StudentSummary(c.Request.Context(), c.Param("studentId"), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}

// Update godoc
// @Summary Update attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param payload body models.UpdateAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req models.UpdateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
