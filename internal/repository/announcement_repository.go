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

const announcementColumns = `id, title, content, created_by, department_id, target_role, priority, attachments, expires_at, created_at, updated_at`

// AnnouncementRepository persists announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an announcement repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements newest first. A target role filter also includes those aimed at everyone.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	var args []interface{}
	if filter.TargetRole != nil {
		query += ` WHERE target_role IN ($1, 'all')`
		args = append(args, *filter.TargetRole)
	}
	query += ` ORDER BY created_at DESC`

	items := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// FindByID fetches an announcement.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	var item models.Announcement
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &item, nil
}

// Create inserts an announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, item *models.Announcement) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Attachments == nil {
		item.Attachments = pq.StringArray{}
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO announcements (id, title, content, created_by, department_id, target_role, priority, attachments, expires_at, created_at, updated_at)
VALUES (:id, :title, :content, :created_by, :department_id, :target_role, :priority, :attachments, :expires_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update stores title, content and priority.
func (r *AnnouncementRepository) Update(ctx context.Context, item *models.Announcement) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, priority = :priority, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireAffected(res)
}
