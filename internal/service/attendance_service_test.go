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

func attendanceFixture(cacheRepo *memCacheRepo) (*memAttendanceRepo, *AttendanceService) {
	repo := &memAttendanceRepo{}
	courses := newMemCourseRepo(models.Course{ID: "c1", Code: "CS101", Name: "Programming", Credits: 4})
	users := newMemUserRepo(
		models.User{ID: "student-1", Name: "Ada", Role: models.RoleStudent},
		models.User{ID: "faculty-1", Name: "Grace", Role: models.RoleFaculty},
	)
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, 0, zap.NewNop(), true)
	}
	return repo, NewAttendanceService(repo, courses, users, cache, nil, 0, nil, nil)
}

func TestAttendanceServiceCreateDefaultsFaculty(t *testing.T) {
	_, svc := attendanceFixture(nil)

	record, err := svc.Create(context.Background(), facultyActor, models.CreateAttendanceRequest{
		Course: "c1", Student: "student-1", Date: "2024-03-01", Status: models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "faculty-1", record.FacultyID)
	assert.Equal(t, "CS101", record.Course.Code)
	assert.Equal(t, "Ada", record.Student.Name)
	assert.Equal(t, "Grace", record.Faculty.Name)

	_, err = svc.Create(context.Background(), facultyActor, models.CreateAttendanceRequest{
		Course: "c1", Student: "student-1", Date: "2024-03-01", Status: "excused",
	})
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), facultyActor, models.CreateAttendanceRequest{
		Course: "c1", Student: "student-1", Date: "yesterday", Status: models.AttendanceAbsent,
	})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAttendanceServiceBulkIsAllOrNothing(t *testing.T) {
	repo, svc := attendanceFixture(nil)

	_, err := svc.Bulk(context.Background(), adminActor, models.BulkAttendanceRequest{Records: []models.CreateAttendanceRequest{
		{Course: "c1", Student: "student-1", Date: "2024-03-01", Status: models.AttendancePresent},
		{Course: "c1", Student: "student-2", Date: "not-a-date", Status: models.AttendancePresent},
	}})
	require.Error(t, err)
	assert.Empty(t, repo.records)

	repo.batchErr = errors.New("tx aborted")
	_, err = svc.Bulk(context.Background(), adminActor, models.BulkAttendanceRequest{Records: []models.CreateAttendanceRequest{
		{Course: "c1", Student: "student-1", Date: "2024-03-01", Status: models.AttendancePresent},
	}})
	assert.Equal(t, 500, appErrors.FromError(err).Status)
	assert.Empty(t, repo.records)

	repo.batchErr = nil
	records, err := svc.Bulk(context.Background(), adminActor, models.BulkAttendanceRequest{Records: []models.CreateAttendanceRequest{
		{Course: "c1", Student: "student-1", Date: "2024-03-01", Status: models.AttendancePresent, Faculty: "faculty-1"},
		{Course: "c1", Student: "student-1", Date: "2024-03-02", Status: models.AttendanceLate},
	}})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "faculty-1", records[0].FacultyID)
	assert.Equal(t, "admin-1", records[1].FacultyID)
	assert.Len(t, repo.records, 2)
}

func TestAttendanceServiceStudentSummary(t *testing.T) {
	cacheRepo := newMemCacheRepo()
	repo, svc := attendanceFixture(cacheRepo)
	repo.records = []models.Attendance{
		{ID: "a1", CourseID: "c1", StudentID: "student-1", Status: models.AttendancePresent},
		{ID: "a2", CourseID: "c1", StudentID: "student-1", Status: models.AttendancePresent},
		{ID: "a3", CourseID: "c1", StudentID: "student-1", Status: models.AttendancePresent},
		{ID: "a4", CourseID: "c1", StudentID: "student-1", Status: models.AttendanceLate},
		{ID: "a5", CourseID: "c2", StudentID: "student-1", Status: models.AttendanceAbsent},
	}

	summary, hit, err := svc.StudentSummary(context.Background(), "student-1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "75.00", summary.Percentage)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Present)

	_, hit, err = svc.StudentSummary(context.Background(), "student-1", "c1")
	require.NoError(t, err)
	assert.True(t, hit)

	all, _, err := svc.StudentSummary(context.Background(), "student-1", "")
	require.NoError(t, err)
	assert.Equal(t, "60.00", all.Percentage)

	empty, _, err := svc.StudentSummary(context.Background(), "student-9", "")
	require.NoError(t, err)
	assert.Equal(t, "0.00", empty.Percentage)
}

func TestAttendanceServiceUpdateInvalidatesSummary(t *testing.T) {
	cacheRepo := newMemCacheRepo()
	repo, svc := attendanceFixture(cacheRepo)
	repo.records = []models.Attendance{{ID: "a1", CourseID: "c1", StudentID: "student-1", Status: models.AttendanceAbsent}}

	_, _, err := svc.StudentSummary(context.Background(), "student-1", "c1")
	require.NoError(t, err)
	require.True(t, cacheRepo.has(attendanceSummaryKey("student-1", "c1")))

	status := models.AttendancePresent
	record, err := svc.Update(context.Background(), "a1", models.UpdateAttendanceRequest{Status: &status, Remarks: strPtr("late bus")})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.False(t, cacheRepo.has(attendanceSummaryKey("student-1", "c1")))

	summary, hit, err := svc.StudentSummary(context.Background(), "student-1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "100.00", summary.Percentage)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Equal(t, 404, appErrors.FromError(svc.Delete(context.Background(), "a1")).Status)
}
