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

const attendanceColumns = `id, course_id, student_id, faculty_id, date, status, remarks, created_at, updated_at`

const insertAttendance = `INSERT INTO attendance (id, course_id, student_id, faculty_id, date, status, remarks, created_at, updated_at)
VALUES (:id, :course_id, :student_id, :faculty_id, :date, :status, :remarks, :created_at, :updated_at)`

// AttendanceRepository persists attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns records matching the filter, newest day first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	var c conditions
	if filter.CourseID != "" {
		c.add("course_id = $%d", filter.CourseID)
	}
	if filter.StudentID != "" {
		c.add("student_id = $%d", filter.StudentID)
	}
	query := `SELECT ` + attendanceColumns + ` FROM attendance` + c.where() + ` ORDER BY date DESC, created_at DESC`
	records := []models.Attendance{}
	if err := r.db.SelectContext(ctx, &records, query, c.args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID fetches a single record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1`
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &record, nil
}

// Create inserts one record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	stampAttendance(record, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertAttendance, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// CreateBatch inserts every record in one transaction; nothing is stored when any insert fails.
func (r *AttendanceRepository) CreateBatch(ctx context.Context, records []models.Attendance) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range records {
		stampAttendance(&records[i], now)
		if _, err = tx.NamedExecContext(ctx, insertAttendance, &records[i]); err != nil {
			return fmt.Errorf("insert attendance %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance batch: %w", err)
	}
	return nil
}

// Update changes status and remarks.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET status = :status, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return requireAffected(res)
}

func stampAttendance(record *models.Attendance, now time.Time) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
}
