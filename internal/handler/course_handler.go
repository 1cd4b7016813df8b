package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.Course, error)
	Create(ctx context.Context, actor models.Actor, req models.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error)
	AssignFaculty(ctx context.Context, id string, req models.AssignFacultyRequest) (*models.Course, error)
	EnrollStudents(ctx context.Context, id string, req models.EnrollStudentsRequest) (*models.Course, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// CourseHandler exposes course catalogue endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	h.list(c, models.CourseFilter{})
}

// ByDepartment godoc
// @Summary List courses of a department
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param departmentId path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /courses/department/{departmentId} [get]
func (h *CourseHandler) ByDepartment(c *gin.Context) {
	h.list(c, models.CourseFilter{DepartmentID: c.Param("departmentId")})
}

func (h *CourseHandler) list(c *gin.Context, filter models.CourseFilter) {
	courses, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// ByFaculty godoc
// @Summary List courses taught by a faculty member
// @Description Falls back to unassigned courses of the faculty's department
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param facultyId path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/faculty/{facultyId} [get]
func (h *CourseHandler) ByFaculty(c *gin.Context) {
	courses, err := h.service.ListByFaculty(c.Request.Context(), c.Param("facultyId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req models.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// AssignFaculty godoc
// @Summary Assign faculty to course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.AssignFacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/assign-faculty [put]
func (h *CourseHandler) AssignFaculty(c *gin.Context) {
	var req models.AssignFacultyRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.AssignFaculty(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// EnrollStudents godoc
// @Summary Enrol students in course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.EnrollStudentsRequest true "Students payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/students [post]
func (h *CourseHandler) EnrollStudents(c *gin.Context) {
	var req models.EnrollStudentsRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.EnrollStudents(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
