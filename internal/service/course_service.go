package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	AssignFaculty(ctx context.Context, id, facultyID string) error
	AddStudents(ctx context.Context, id string, studentIDs []string) error
	Delete(ctx context.Context, id string) error
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// CourseService manages courses, their faculty and enrolment.
type CourseService struct {
	repo        courseRepository
	departments departmentReader
	users       userReader
	audit       auditWriter
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, departments departmentReader, users userReader, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, departments: departments, users: users, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns courses matching the filter with department and faculty populated.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	if err := s.populate(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	courses := []models.Course{*course}
	if err := s.populate(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// ListByFaculty returns the courses taught by a faculty. When none are assigned it falls back to
// the unassigned courses of the faculty's department.
func (s *CourseService) ListByFaculty(ctx context.Context, facultyID string) ([]models.Course, error) {
	if _, err := uuid.Parse(facultyID); err != nil {
		return nil, validationError(err, "invalid faculty id")
	}
	faculty, err := s.users.FindByID(ctx, facultyID)
	if err != nil {
		return nil, lookupError(err, "faculty not found", "failed to load faculty")
	}

	assigned, err := s.List(ctx, models.CourseFilter{FacultyID: facultyID})
	if err != nil {
		return nil, err
	}
	if len(assigned) > 0 || faculty.DepartmentID == nil {
		return assigned, nil
	}

	return s.List(ctx, models.CourseFilter{DepartmentID: *faculty.DepartmentID, Unassigned: true})
}

// Create adds a course. The department must exist and the code must be unique.
func (s *CourseService) Create(ctx context.Context, actor models.Actor, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}

	course := &models.Course{
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Credits:      req.Credits,
		DepartmentID: strings.TrimSpace(req.Department),
		FacultyID:    stringPtr(req.Faculty),
		Semester:     req.Semester,
		Description:  req.Description,
	}

	if err := s.checkDepartment(ctx, course.DepartmentID); err != nil {
		return nil, err
	}
	if course.FacultyID != nil {
		if err := s.checkFaculty(ctx, *course.FacultyID); err != nil {
			return nil, err
		}
	}
	if err := s.checkCode(ctx, course.Code, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course code already exists", "failed to create course")
	}
	s.cache.Invalidate(ctx, cachePatternDashboard)

	return s.Get(ctx, course.ID)
}

// Update applies a partial course update.
func (s *CourseService) Update(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != course.Code {
			if err := s.checkCode(ctx, code, course.ID); err != nil {
				return nil, err
			}
		}
		course.Code = code
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Department != nil {
		if err := s.checkDepartment(ctx, *req.Department); err != nil {
			return nil, err
		}
		course.DepartmentID = *req.Department
	}
	if req.Faculty != nil {
		if err := s.checkFaculty(ctx, *req.Faculty); err != nil {
			return nil, err
		}
		course.FacultyID = req.Faculty
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, writeError(err, "course code already exists", "failed to update course")
	}
	s.cache.Invalidate(ctx, cachePatternMarksSummaries, cachePatternAttendanceSummaries)
	return s.Get(ctx, course.ID)
}

// AssignFaculty sets the faculty teaching a course.
func (s *CourseService) AssignFaculty(ctx context.Context, id string, req models.AssignFacultyRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assign faculty payload")
	}
	if err := s.checkFaculty(ctx, req.FacultyID); err != nil {
		return nil, err
	}
	if err := s.repo.AssignFaculty(ctx, id, req.FacultyID); err != nil {
		return nil, lookupError(err, "course not found", "failed to assign faculty")
	}
	return s.Get(ctx, id)
}

// EnrollStudents adds students to a course. Students already enrolled are left as they are.
func (s *CourseService) EnrollStudents(ctx context.Context, id string, req models.EnrollStudentsRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrolment payload")
	}
	ids := uniqueIDs(req.StudentIDs)
	students, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to load students")
	}
	found := make(map[string]bool, len(students))
	for _, u := range students {
		found[u.ID] = u.Role == models.RoleStudent
	}
	for _, sid := range ids {
		if !found[sid] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student not found: "+sid)
		}
	}

	if err := s.repo.AddStudents(ctx, id, ids); err != nil {
		return nil, lookupError(err, "course not found", "failed to enrol students")
	}
	return s.Get(ctx, id)
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "course not found", "failed to delete course")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionCourseDelete, "course", id, nil)
	s.cache.Invalidate(ctx, cachePatternDashboard, cachePatternMarksSummaries, cachePatternAttendanceSummaries)
	return nil
}

func (s *CourseService) checkDepartment(ctx context.Context, id string) error {
	if _, err := s.departments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "department not found")
		}
		return internalError(err, "failed to load department")
	}
	return nil
}

func (s *CourseService) checkFaculty(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "faculty not found")
		}
		return internalError(err, "failed to load faculty")
	}
	if user.Role != models.RoleFaculty {
		return appErrors.Clone(appErrors.ErrValidation, "user is not a faculty member")
	}
	return nil
}

func (s *CourseService) checkCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return internalError(err, "failed to check course code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicate, "course code already exists")
	}
	return nil
}

func (s *CourseService) populate(ctx context.Context, courses []models.Course) error {
	deptIDs := make([]string, 0, len(courses))
	facultyIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		deptIDs = append(deptIDs, c.DepartmentID)
		facultyIDs = append(facultyIDs, deref(c.FacultyID))
	}
	resolver := refResolver{users: s.users, departments: s.departments}
	departments, err := resolver.departmentRefs(ctx, deptIDs)
	if err != nil {
		return internalError(err, "failed to load departments")
	}
	faculty, err := resolver.userRefs(ctx, facultyIDs)
	if err != nil {
		return internalError(err, "failed to load faculty")
	}
	for i := range courses {
		courses[i].Department = departments[courses[i].DepartmentID]
		courses[i].Faculty = faculty[deref(courses[i].FacultyID)]
	}
	return nil
}
