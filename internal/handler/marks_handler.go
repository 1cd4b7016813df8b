package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type marksService interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateMarksRequest) (*models.Marks, error)
	List(ctx context.Context) ([]models.Marks, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Marks, error)
	StudentSummary(ctx context.Context, studentID string) (*models.MarksSummary, bool, error)
	Update(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Marks, error)
	Delete(ctx context.Context, id string) error
}

// MarksHandler exposes assessment endpoints.
type MarksHandler struct {
	service marksService
}

// NewMarksHandler constructs the handler.
func NewMarksHandler(svc marksService) *MarksHandler {
	return &MarksHandler{service: svc}
}

// Create godoc
// @Summary Record marks
// @Description Percentage is derived from marksObtained and totalMarks
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateMarksRequest true "Marks payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /marks [post]
func (h *MarksHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateMarksRequest
	if !bindJSON(c, &req) {
		return
	}

	marks, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, marks)
}

// List godoc
// @Summary List marks
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /marks [get]
func (h *MarksHandler) List(c *gin.Context) {
	marks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// ByCourse godoc
// @Summary List marks of a course
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /marks/course/{courseId} [get]
func (h *MarksHandler) ByCourse(c *gin.Context) {
	marks, err := h.service.ListByCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// ByStudent godoc
// @Summary Student results with CGPA
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /marks/student/{studentId} [get]
func (h *MarksHandler) ByStudent(c *gin.Context) {
	summary, hit, err := h.service.StudentSummary(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}

// Update godoc
// @Summary Update marks
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marks ID"
// @Param payload body models.UpdateMarksRequest true "Marks payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /marks/{id} [put]
func (h *MarksHandler) Update(c *gin.Context) {
	var req models.UpdateMarksRequest
	if !bindJSON(c, &req) {
		return
	}

	marks, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// Delete godoc
// @Summary Delete marks
// @Tags Marks
// @Security BearerAuth
// @Param id path string true "Marks ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /marks/{id} [delete]
func (h *MarksHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
