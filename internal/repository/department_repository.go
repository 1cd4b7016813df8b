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

const departmentColumns = `id, name, code, description, head_of_department, created_at, updated_at`

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns every department ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY name ASC`
	departments := []models.Department{}
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID fetches a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &dept, nil
}

// FindByIDs loads the departments in ids with one query.
func (r *DepartmentRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Department, error) {
	if len(ids) == 0 {
		return []models.Department{}, nil
	}
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = ANY($1)`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find departments by ids: %w", err)
	}
	return departments, nil
}

// ExistsByCode checks whether another department uses the code.
func (r *DepartmentRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM departments WHERE code = $1 AND id <> $2 LIMIT 1`, code, excludeID)
}

// ExistsByName checks whether another department uses the name.
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM departments WHERE name = $1 AND id <> $2 LIMIT 1`, name, excludeID)
}

func (r *DepartmentRepository) exists(ctx context.Context, query, value, excludeID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, value, excludeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	dept.CreatedAt = now
	dept.UpdatedAt = now
	const query = `INSERT INTO departments (id, name, code, description, head_of_department, created_at, updated_at) VALUES (:id, :name, :code, :description, :head_of_department, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update modifies the descriptive fields of a department.
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	dept.UpdatedAt = time.Now().UTC()
	const query = `UPDATE departments SET name = :name, description = :description, head_of_department = :head_of_department, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete removes a department. Its courses and users keep their dangling reference.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return requireAffected(res)
}
