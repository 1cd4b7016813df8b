package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-erp-api/internal/models"
)

const marksColumns = `id, course_id, student_id, faculty_id, exam_type, marks_obtained, total_marks, percentage, grade, remarks, created_at, updated_at`

// MarksRepository persists assessment results.
type MarksRepository struct {
	db *sqlx.DB
}

// NewMarksRepository constructs a marks repository.
func NewMarksRepository(db *sqlx.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

// List returns results matching the filter, newest first.
func (r *MarksRepository) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	var c conditions
	if filter.CourseID != "" {
		c.add("course_id = $%d", filter.CourseID)
	}
	if filter.StudentID != "" {
		c.add("student_id = $%d", filter.StudentID)
	}
	query := `SELECT ` + marksColumns + ` FROM marks` + c.where() + ` ORDER BY created_at DESC`
	marks := []models.Marks{}
	if err := r.db.SelectContext(ctx, &marks, query, c.args...); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return marks, nil
}

// FindByID fetches one result.
func (r *MarksRepository) FindByID(ctx context.Context, id string) (*models.Marks, error) {
	query := `SELECT ` + marksColumns + ` FROM marks WHERE id = $1`
	var m models.Marks
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get marks: %w", err)
	}
	return &m, nil
}

// Create inserts a result, deriving its percentage first.
func (r *MarksRepository) Create(ctx context.Context, m *models.Marks) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.Recompute()
	const query = `INSERT INTO marks (id, course_id, student_id, faculty_id, exam_type, marks_obtained, total_marks, percentage, grade, remarks, created_at, updated_at)
VALUES (:id, :course_id, :student_id, :faculty_id, :exam_type, :marks_obtained, :total_marks, :percentage, :grade, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create marks: %w", err)
	}
	return nil
}

// Update stores the editable fields and the recomputed percentage.
func (r *MarksRepository) Update(ctx context.Context, m *models.Marks) error {
	m.UpdatedAt = time.Now().UTC()
	m.Recompute()
	const query = `UPDATE marks SET marks_obtained = :marks_obtained, total_marks = :total_marks, percentage = :percentage, grade = :grade, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("update marks: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a result.
func (r *MarksRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM marks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete marks: %w", err)
	}
	return requireAffected(res)
}
