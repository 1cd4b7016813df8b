package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type fakeUserSrv struct {
	filter     models.UserFilter
	updateBy   models.Actor
	updateID   string
	updateErr  error
	deletedIDs []string
}

func (f *fakeUserSrv) List(_ context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.filter = filter
	users := []models.User{{ID: "u1", Name: "Ada"}}
	return users, &models.Pagination{Page: 1, PageSize: 1, TotalCount: 1}, nil
}

func (f *fakeUserSrv) Get(_ context.Context, id string) (*models.User, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (f *fakeUserSrv) Update(_ context.Context, actor models.Actor, id string, _ models.UpdateUserRequest) (*models.User, error) {
	f.updateBy = actor
	f.updateID = id
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.User{ID: id}, nil
}

func (f *fakeUserSrv) UpdateStatus(_ context.Context, _ models.Actor, id string, req models.UpdateUserStatusRequest) (*models.User, error) {
	return &models.User{ID: id, Status: req.Status}, nil
}

func (f *fakeUserSrv) Delete(_ context.Context, _ models.Actor, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func TestUserHandlerListParsesFilters(t *testing.T) {
	svc := &fakeUserSrv{}
	handler := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/users?role=faculty&status=active&department=d1&page=2&page_size=10&search=%20ada%20", "", adminClaims)
	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Role)
	assert.Equal(t, models.RoleFaculty, *svc.filter.Role)
	require.NotNil(t, svc.filter.Status)
	assert.Equal(t, models.UserStatusActive, *svc.filter.Status)
	assert.Equal(t, "d1", svc.filter.DepartmentID)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 10, svc.filter.PageSize)
	assert.Equal(t, "ada", svc.filter.Search)
	assert.Equal(t, 1, decodeEnvelope(t, rec).Pagination.TotalCount)
}

func TestUserHandlerByRole(t *testing.T) {
	svc := &fakeUserSrv{}
	handler := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/users/role/student", "", adminClaims, gin.Param{Key: "role", Value: "student"})
	handler.ByRole(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleStudent, *svc.filter.Role)

	c, rec = newTestContext(http.MethodGet, "/users/role/dean", "", adminClaims, gin.Param{Key: "role", Value: "dean"})
	handler.ByRole(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid role", decodeEnvelope(t, rec).Error.Message)
}

func TestUserHandlerGetNotFound(t *testing.T) {
	handler := NewUserHandler(&fakeUserSrv{})

	c, rec := newTestContext(http.MethodGet, "/users/missing", "", adminClaims, gin.Param{Key: "id", Value: "missing"})
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decodeEnvelope(t, rec).Error.Message)
}

func TestUserHandlerUpdatePassesActor(t *testing.T) {
	svc := &fakeUserSrv{}
	handler := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodPut, "/users/student-1", `{"phone":"555"}`, studentClaims, gin.Param{Key: "id", Value: "student-1"})
	handler.Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", svc.updateBy.ID)
	assert.Equal(t, models.RoleStudent, svc.updateBy.Role)
	assert.Equal(t, "student-1", svc.updateID)

	svc.updateErr = appErrors.Clone(appErrors.ErrValidation, "invalid role transition")
	c, rec = newTestContext(http.MethodPut, "/users/u2", `{"role":"faculty"}`, adminClaims, gin.Param{Key: "id", Value: "u2"})
	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerStatusAndDelete(t *testing.T) {
	svc := &fakeUserSrv{}
	handler := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodPatch, "/users/u1/status", `{"status":"inactive"}`, adminClaims, gin.Param{Key: "id", Value: "u1"})
	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"inactive"`)

	c, _ = newTestContext(http.MethodDelete, "/users/u1", "", adminClaims, gin.Param{Key: "id", Value: "u1"})
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, []string{"u1"}, svc.deletedIDs)
}
