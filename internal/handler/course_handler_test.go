package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type fakeCourseSrv struct {
	filter    models.CourseFilter
	facultyID string
	createErr error
	enrolled  models.EnrollStudentsRequest
}

func (f *fakeCourseSrv) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	f.filter = filter
	return []models.Course{{ID: "c1", Code: "CS101"}}, nil
}

func (f *fakeCourseSrv) Get(_ context.Context, id string) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}

func (f *fakeCourseSrv) ListByFaculty(_ context.Context, facultyID string) ([]models.Course, error) {
	f.facultyID = facultyID
	switch facultyID {
	case "not-a-uuid":
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid faculty id")
	case "00000000-0000-0000-0000-000000000000":
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	return []models.Course{}, nil
}

func (f *fakeCourseSrv) Create(_ context.Context, _ models.Actor, req models.CreateCourseRequest) (*models.Course, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Course{ID: "c2", Code: req.Code}, nil
}

func (f *fakeCourseSrv) Update(_ context.Context, id string, _ models.UpdateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}

func (f *fakeCourseSrv) AssignFaculty(_ context.Context, id string, req models.AssignFacultyRequest) (*models.Course, error) {
	return &models.Course{ID: id, FacultyID: &req.FacultyID}, nil
}

func (f *fakeCourseSrv) EnrollStudents(_ context.Context, id string, req models.EnrollStudentsRequest) (*models.Course, error) {
	f.enrolled = req
	return &models.Course{ID: id, Students: req.StudentIDs}, nil
}

func (f *fakeCourseSrv) Delete(context.Context, models.Actor, string) error { return nil }

func TestCourseHandlerByDepartment(t *testing.T) {
	svc := &fakeCourseSrv{}
	handler := NewCourseHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/courses/department/d1", "", adminClaims, gin.Param{Key: "departmentId", Value: "d1"})
	handler.ByDepartment(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", svc.filter.DepartmentID)
}

func TestCourseHandlerByFaculty(t *testing.T) {
	handler := NewCourseHandler(&fakeCourseSrv{})

	cases := map[string]int{
		"not-a-uuid":                           http.StatusBadRequest,
		"00000000-0000-0000-0000-000000000000": http.StatusNotFound,
		"6f1c2a9e-4c1b-4d5e-9f3a-2b7c8d9e0f1a": http.StatusOK,
	}
	for id, status := range cases {
		c, rec := newTestContext(http.MethodGet, "/courses/faculty/"+id, "", adminClaims, gin.Param{Key: "facultyId", Value: id})
		handler.ByFaculty(c)
		assert.Equal(t, status, rec.Code, id)
	}

	c, rec := newTestContext(http.MethodGet, "/courses/faculty/x", "", adminClaims, gin.Param{Key: "facultyId", Value: "6f1c2a9e-4c1b-4d5e-9f3a-2b7c8d9e0f1a"})
	handler.ByFaculty(c)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &fakeCourseSrv{}
	handler := NewCourseHandler(svc)

	body := `{"code":"CS101","name":"Intro","credits":4,"department":"d1","semester":1}`
	c, rec := newTestContext(http.MethodPost, "/courses", body, adminClaims)
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	svc.createErr = appErrors.Clone(appErrors.ErrValidation, "department not found")
	c, rec = newTestContext(http.MethodPost, "/courses", body, adminClaims)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "department not found", decodeEnvelope(t, rec).Error.Message)
}

func TestCourseHandlerEnrollStudents(t *testing.T) {
	svc := &fakeCourseSrv{}
	handler := NewCourseHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/courses/c1/students", `{"studentIds":["s1","s2"]}`, adminClaims, gin.Param{Key: "id", Value: "c1"})
	handler.EnrollStudents(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s1", "s2"}, svc.enrolled.StudentIDs)
	var course models.Course
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &course))
	assert.Len(t, course.Students, 2)
}
