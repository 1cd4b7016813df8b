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

const courseColumns = `id, code, name, credits, department_id, faculty_id, semester, students, description, created_at, updated_at`

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the filter ordered by code.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	var c conditions
	if filter.DepartmentID != "" {
		c.add("department_id = $%d", filter.DepartmentID)
	}
	if filter.FacultyID != "" {
		c.add("faculty_id = $%d", filter.FacultyID)
	}
	query := `SELECT ` + courseColumns + ` FROM courses` + c.where()
	if filter.Unassigned {
		if len(c.clauses) == 0 {
			query += " WHERE faculty_id IS NULL"
		} else {
			query += " AND faculty_id IS NULL"
		}
	}
	query += " ORDER BY code ASC"

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, c.args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

// FindByIDs loads the courses in ids with one query.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return courses, nil
}

// ExistsByCode checks whether another course uses the code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	const query = `SELECT 1 FROM courses WHERE code = $1 AND id <> $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code, excludeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Students == nil {
		course.Students = pq.StringArray{}
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, code, name, credits, department_id, faculty_id, semester, students, description, created_at, updated_at)
VALUES (:id, :code, :name, :credits, :department_id, :faculty_id, :semester, :students, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a course. Enrolment goes through AddStudents.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, name = :name, credits = :credits, department_id = :department_id, faculty_id = :faculty_id,
semester = :semester, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// AssignFaculty sets the teaching faculty.
func (r *CourseRepository) AssignFaculty(ctx context.Context, id, facultyID string) error {
	const query = `UPDATE courses SET faculty_id = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, facultyID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign faculty: %w", err)
	}
	return requireAffected(res)
}

// AddStudents appends the students not yet enrolled, keeping the existing order.
func (r *CourseRepository) AddStudents(ctx context.Context, id string, studentIDs []string) error {
	const query = `UPDATE courses SET students = students || ARRAY(SELECT unnest($2::text[]) EXCEPT SELECT unnest(students)), updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, pq.Array(studentIDs), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("enroll students: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res)
}
