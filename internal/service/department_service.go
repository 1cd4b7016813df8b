package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, dept *models.Department) error
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id string) error
}

type courseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

// DepartmentService manages departments.
type DepartmentService struct {
	repo      departmentRepository
	users     userLookup
	courses   courseLister
	audit     auditWriter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, users userLookup, courses courseLister, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DepartmentService{repo: repo, users: users, courses: courses, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns all departments with their head populated.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list departments")
	}
	ids := make([]string, 0, len(departments))
	for _, d := range departments {
		ids = append(ids, deref(d.HeadOfDepartment))
	}
	heads, err := refResolver{users: s.users}.userRefs(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to load department heads")
	}
	for i := range departments {
		departments[i].Head = heads[deref(departments[i].HeadOfDepartment)]
	}
	return departments, nil
}

// Get returns a department with its head and courses populated.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}
	if err := s.populate(ctx, dept); err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx, models.CourseFilter{DepartmentID: dept.ID})
	if err != nil {
		return nil, internalError(err, "failed to load department courses")
	}
	dept.Courses = courses
	return dept, nil
}

// Create adds a department. Codes are stored upper-cased and both code and name are unique.
func (s *DepartmentService) Create(ctx context.Context, actor models.Actor, req models.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}

	dept := &models.Department{
		Name:             strings.TrimSpace(req.Name),
		Code:             strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:      req.Description,
		HeadOfDepartment: stringPtr(req.HeadOfDepartment),
	}

	exists, err := s.repo.ExistsByCode(ctx, dept.Code, "")
	if err != nil {
		return nil, internalError(err, "failed to check department code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "department code already exists")
	}
	if err := s.checkName(ctx, dept.Name, ""); err != nil {
		return nil, err
	}
	if err := s.checkHead(ctx, dept.HeadOfDepartment); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, writeError(err, "department code or name already exists", "failed to create department")
	}
	s.cache.Invalidate(ctx, cachePatternDashboard)

	if err := s.populate(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Update changes the name, description or head of a department.
func (s *DepartmentService) Update(ctx context.Context, id string, req models.UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != dept.Name {
			if err := s.checkName(ctx, name, dept.ID); err != nil {
				return nil, err
			}
		}
		dept.Name = name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.HeadOfDepartment != nil {
		dept.HeadOfDepartment = stringPtr(*req.HeadOfDepartment)
		if err := s.checkHead(ctx, dept.HeadOfDepartment); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, writeError(err, "department name already exists", "failed to update department")
	}
	if err := s.populate(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Delete removes a department. Its courses and members keep their reference.
func (s *DepartmentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "department not found", "failed to delete department")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionDepartmentDel, "department", id, nil)
	s.cache.Invalidate(ctx, cachePatternDashboard)
	return nil
}

func (s *DepartmentService) checkName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internalError(err, "failed to check department name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicate, "department name already exists")
	}
	return nil
}

func (s *DepartmentService) checkHead(ctx context.Context, headID *string) error {
	if headID == nil {
		return nil
	}
	refs, err := refResolver{users: s.users}.userRefs(ctx, []string{*headID})
	if err != nil {
		return internalError(err, "failed to load head of department")
	}
	if refs[*headID] == nil {
		return appErrors.Clone(appErrors.ErrValidation, "head of department not found")
	}
	return nil
}

func (s *DepartmentService) populate(ctx context.Context, dept *models.Department) error {
	heads, err := refResolver{users: s.users}.userRefs(ctx, []string{deref(dept.HeadOfDepartment)})
	if err != nil {
		return internalError(err, "failed to load head of department")
	}
	dept.Head = heads[deref(dept.HeadOfDepartment)]
	return nil
}
