package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/models"
)

func TestAdminCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"users", "students", "faculty", "departments", "courses", "pending_leaves"}).
		AddRow(12, 9, 2, 2, 5, 3)
	mock.ExpectQuery("SELECT\\s+\\(SELECT COUNT\\(\\*\\) FROM users\\) AS users").WillReturnRows(rows)

	out, err := repo.AdminCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, out.Users)
	assert.Equal(t, 3, out.PendingLeaves)
}

func TestAuditCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))
	entry := &models.AuditLog{Action: models.AuditActionCourseDelete, Resource: "course"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
}
