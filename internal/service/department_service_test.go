package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

func TestDepartmentServiceCreate(t *testing.T) {
	depts := newMemDepartmentRepo()
	users := newMemUserRepo(models.User{ID: "faculty-1", Name: "Grace", Role: models.RoleFaculty})
	svc := NewDepartmentService(depts, users, newMemCourseRepo(), &memAuditRepo{}, nil, nil, zap.NewNop())

	dept, err := svc.Create(context.Background(), adminActor, models.CreateDepartmentRequest{
		Name: "Computer Science", Code: "cs", HeadOfDepartment: "faculty-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "CS", dept.Code)
	require.NotNil(t, dept.Head)
	assert.Equal(t, "Grace", dept.Head.Name)
}

func TestDepartmentServiceCreateRejectsDuplicates(t *testing.T) {
	depts := newMemDepartmentRepo(csDepartment())
	svc := NewDepartmentService(depts, newMemUserRepo(), newMemCourseRepo(), &memAuditRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), adminActor, models.CreateDepartmentRequest{Name: "Computing", Code: "CS"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), adminActor, models.CreateDepartmentRequest{Name: "Computer Science", Code: "CSE"})
	require.Error(t, err)
	assert.Equal(t, "department name already exists", appErrors.FromError(err).Message)

	assert.Zero(t, depts.createCalls)
	assert.Len(t, depts.departments, 1)
}

func TestDepartmentServiceCreateValidation(t *testing.T) {
	svc := NewDepartmentService(newMemDepartmentRepo(), newMemUserRepo(), newMemCourseRepo(), &memAuditRepo{}, nil, nil, nil)

	for _, req := range []models.CreateDepartmentRequest{
		{Name: "No Code"},
		{Name: "Bad Code", Code: "C-S"},
		{Name: "Ghost Head", Code: "GH", HeadOfDepartment: "nobody"},
	} {
		_, err := svc.Create(context.Background(), adminActor, req)
		require.Error(t, err)
		assert.Equal(t, 400, appErrors.FromError(err).Status)
	}
}

func TestDepartmentServiceGetPopulatesCourses(t *testing.T) {
	dept := csDepartment()
	dept.HeadOfDepartment = strPtr("faculty-1")
	svc := NewDepartmentService(
		newMemDepartmentRepo(dept),
		newMemUserRepo(models.User{ID: "faculty-1", Name: "Grace", Role: models.RoleFaculty}),
		newMemCourseRepo(
			models.Course{ID: "c1", Code: "CS101", DepartmentID: "dept-cs"},
			models.Course{ID: "c2", Code: "EE101", DepartmentID: "dept-ee"},
		),
		&memAuditRepo{}, nil, nil, nil,
	)

	got, err := svc.Get(context.Background(), "dept-cs")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Head.Name)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "CS101", got.Courses[0].Code)

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestDepartmentServiceUpdate(t *testing.T) {
	ee := models.Department{ID: "dept-ee", Name: "Electrical", Code: "EE"}
	depts := newMemDepartmentRepo(csDepartment(), ee)
	svc := NewDepartmentService(depts, newMemUserRepo(), newMemCourseRepo(), &memAuditRepo{}, nil, nil, nil)

	got, err := svc.Update(context.Background(), "dept-cs", models.UpdateDepartmentRequest{Description: strPtr("Computing")})
	require.NoError(t, err)
	assert.Equal(t, "Computing", got.Description)
	assert.Equal(t, "CS", got.Code)

	_, err = svc.Update(context.Background(), "dept-cs", models.UpdateDepartmentRequest{Name: strPtr("Electrical")})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
}

func TestDepartmentServiceDeleteKeepsCourses(t *testing.T) {
	courses := newMemCourseRepo(models.Course{ID: "c1", Code: "CS101", DepartmentID: "dept-cs"})
	audit := &memAuditRepo{}
	svc := NewDepartmentService(newMemDepartmentRepo(csDepartment()), newMemUserRepo(), courses, audit, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), adminActor, "dept-cs"))
	assert.Len(t, courses.courses, 1)
	assert.Equal(t, "dept-cs", courses.courses["c1"].DepartmentID)
	assert.Equal(t, []string{models.AuditActionDepartmentDel}, audit.actions())

	err := svc.Delete(context.Background(), adminActor, "dept-cs")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
