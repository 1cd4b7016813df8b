package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type fakeMarksSrv struct {
	actor   models.Actor
	created models.CreateMarksRequest
	updated models.UpdateMarksRequest
	hit     bool
	err     error
}

func (f *fakeMarksSrv) Create(_ context.Context, actor models.Actor, req models.CreateMarksRequest) (*models.Marks, error) {
	f.actor = actor
	f.created = req
	return &models.Marks{ID: "m1", StudentID: req.Student, MarksObtained: *req.MarksObtained, TotalMarks: req.TotalMarks, Percentage: 90}, nil
}

func (f *fakeMarksSrv) List(context.Context) ([]models.Marks, error) { return []models.Marks{}, nil }

func (f *fakeMarksSrv) ListByCourse(_ context.Context, courseID string) ([]models.Marks, error) {
	return []models.Marks{{ID: "m1", CourseID: courseID}}, nil
}

func (f *fakeMarksSrv) StudentSummary(_ context.Context, studentID string) (*models.MarksSummary, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return &models.MarksSummary{Marks: []models.Marks{{ID: "m1", StudentID: studentID}}, CGPA: "3.67"}, f.hit, nil
}

func (f *fakeMarksSrv) Update(_ context.Context, id string, req models.UpdateMarksRequest) (*models.Marks, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = req
	return &models.Marks{ID: id}, nil
}

func (f *fakeMarksSrv) Delete(context.Context, string) error { return f.err }

func TestMarksHandlerCreate(t *testing.T) {
	svc := &fakeMarksSrv{}
	handler := NewMarksHandler(svc)

	body := `{"course":"c1","student":"s1","examType":"midterm","marksObtained":45,"totalMarks":50,"grade":"A"}`
	c, rec := newTestContext(http.MethodPost, "/marks", body, adminClaims)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin-1", svc.actor.ID)
	require.NotNil(t, svc.created.MarksObtained)
	assert.Equal(t, 45.0, *svc.created.MarksObtained)
}

func TestMarksHandlerByStudentReportsCacheHit(t *testing.T) {
	svc := &fakeMarksSrv{hit: true}
	handler := NewMarksHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/marks/student/s1", "", studentClaims, gin.Param{Key: "studentId", Value: "s1"})
	middleware.WithResponseMeta()(c)
	handler.ByStudent(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])

	var summary models.MarksSummary
	require.NoError(t, json.Unmarshal(envelope.Data, &summary))
	assert.Equal(t, "3.67", summary.CGPA)
	assert.Len(t, summary.Marks, 1)
}

func TestMarksHandlerUpdateAndDelete(t *testing.T) {
	svc := &fakeMarksSrv{}
	handler := NewMarksHandler(svc)

	c, rec := newTestContext(http.MethodPut, "/marks/m1", `{"marksObtained":40}`, adminClaims, gin.Param{Key: "id", Value: "m1"})
	handler.Update(c)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.MarksObtained)
	assert.Equal(t, 40.0, *svc.updated.MarksObtained)

	svc.err = appErrors.ErrNotFound
	c, rec = newTestContext(http.MethodDelete, "/marks/missing", "", adminClaims, gin.Param{Key: "id", Value: "missing"})
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
