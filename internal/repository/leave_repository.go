package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/college-erp-api/internal/models"
)

const leaveColumns = `id, user_id, leave_type, start_date, end_date, number_of_days, reason, status, approved_by, remarks, attachments, created_at, updated_at`

// LeaveRepository persists leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs a leave repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// List returns leaves matching the filter, newest first.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error) {
	var c conditions
	if filter.UserID != "" {
		c.add("user_id = $%d", filter.UserID)
	}
	if filter.Status != nil {
		c.add("status = $%d", *filter.Status)
	}
	query := `SELECT ` + leaveColumns + ` FROM leaves` + c.where() + ` ORDER BY created_at DESC`
	leaves := []models.Leave{}
	if err := r.db.SelectContext(ctx, &leaves, query, c.args...); err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return leaves, nil
}

// FindByID fetches one leave.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1`
	var leave models.Leave
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get leave: %w", err)
	}
	return &leave, nil
}

// Create inserts a leave in pending state.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	if leave.Attachments == nil {
		leave.Attachments = pq.StringArray{}
	}
	if leave.Status == "" {
		leave.Status = models.LeavePending
	}
	now := time.Now().UTC()
	leave.CreatedAt = now
	leave.UpdatedAt = now
	const query = `INSERT INTO leaves (id, user_id, leave_type, start_date, end_date, number_of_days, reason, status, approved_by, remarks, attachments, created_at, updated_at)
VALUES (:id, :user_id, :leave_type, :start_date, :end_date, :number_of_days, :reason, :status, :approved_by, :remarks, :attachments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

// Update stores the requester-editable fields.
func (r *LeaveRepository) Update(ctx context.Context, leave *models.Leave) error {
	leave.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leaves SET leave_type = :leave_type, start_date = :start_date, end_date = :end_date, number_of_days = :number_of_days,
reason = :reason, attachments = :attachments, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("update leave: %w", err)
	}
	return nil
}

// Decide records an approval or rejection. Empty remarks keep the stored ones.
func (r *LeaveRepository) Decide(ctx context.Context, id string, status models.LeaveStatus, approverID, remarks string) error {
	const query = `UPDATE leaves SET status = $2, approved_by = $3, remarks = COALESCE(NULLIF($4, ''), remarks), updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, approverID, remarks, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide leave: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a leave.
func (r *LeaveRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	return requireAffected(res)
}
