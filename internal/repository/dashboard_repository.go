package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-erp-api/internal/models"
)

// DashboardRepository computes institution-wide counters.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a dashboard repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// AdminCounts returns every counter in a single round trip.
func (r *DashboardRepository) AdminCounts(ctx context.Context) (*models.AdminDashboard, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM users) AS users,
	(SELECT COUNT(*) FROM users WHERE role = 'student') AS students,
	(SELECT COUNT(*) FROM users WHERE role = 'faculty') AS faculty,
	(SELECT COUNT(*) FROM departments) AS departments,
	(SELECT COUNT(*) FROM courses) AS courses,
	(SELECT COUNT(*) FROM leaves WHERE status = 'pending') AS pending_leaves`
	var out models.AdminDashboard
	if err := r.db.GetContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &out, nil
}
