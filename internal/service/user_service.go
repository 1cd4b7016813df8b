package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByEnrollmentNumber(ctx context.Context, number, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
	Delete(ctx context.Context, id string) error
}

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Department, error)
}

// UserService handles user management workflows.
type UserService struct {
	repo        userRepository
	departments departmentReader
	audit       auditWriter
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	bcryptCost  int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, departments departmentReader, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger, bcryptCost int) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{
		repo:        repo,
		departments: departments,
		audit:       audit,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		bcryptCost:  bcryptCost,
	}
}

// Register creates an account. The request is resolved into the variant of its role and that
// variant's required fields are validated.
func (s *UserService) Register(ctx context.Context, actor models.Actor, req models.RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid register payload")
	}

	user := &models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Role:             req.Role,
		DepartmentID:     stringPtr(req.Department),
		EnrollmentNumber: stringPtr(req.EnrollmentNumber),
		EmployeeID:       stringPtr(req.EmployeeID),
		Status:           models.UserStatusActive,
		Phone:            req.Phone,
		Address:          req.Address,
		Gender:           req.Gender,
	}
	if req.Semester > 0 {
		semester := req.Semester
		user.Semester = &semester
	}
	if req.DOB != "" {
		dob, err := parseDate(req.DOB)
		if err != nil {
			return nil, validationError(err, "invalid date of birth")
		}
		user.DOB = &dob
	}
	user.DropForeignFields()

	if err := s.validateAccount(user, "invalid "+string(user.Role)+" account"); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, user.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, user, ""); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	user.PasswordHash = hash

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, writeError(err, "email or enrollment number already exists", "failed to create user")
	}

	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionUserCreate, "user", user.ID, map[string]string{"role": string(user.Role)})
	s.cache.Invalidate(ctx, cachePatternDashboard)

	if err := s.populate(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns users with their department populated. Pagination is applied only when the
// filter carries a page size.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list users")
	}

	ptrs := make([]*models.User, len(users))
	for i := range users {
		ptrs[i] = &users[i]
	}
	if err := s.populate(ctx, ptrs); err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{Page: 1, PageSize: total, TotalCount: total}
	if filter.PageSize > 0 {
		pagination.PageSize = filter.PageSize
		if filter.Page > 1 {
			pagination.Page = filter.Page
		}
	}
	return users, pagination, nil
}

// Get returns a user by ID with the department populated.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	if err := s.populate(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial profile update. Callers may edit their own basic profile; the
// remaining fields and other users' records are reserved for admins.
func (s *UserService) Update(ctx context.Context, actor models.Actor, id string, req models.UpdateUserRequest) (*models.User, error) {
	if !actor.IsAdmin() {
		if actor.ID != id {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot update another user")
		}
		if req.HasPrivilegedFields() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can change account fields")
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid update user payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	previousRole := user.Role

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.DOB != nil {
		if *req.DOB == "" {
			user.DOB = nil
		} else {
			dob, err := parseDate(*req.DOB)
			if err != nil {
				return nil, validationError(err, "invalid date of birth")
			}
			user.DOB = &dob
		}
	}

	if req.HasPrivilegedFields() {
		if req.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Department != nil {
			user.DepartmentID = stringPtr(*req.Department)
		}
		if req.EmployeeID != nil {
			user.EmployeeID = stringPtr(*req.EmployeeID)
		}
		if req.EnrollmentNumber != nil {
			user.EnrollmentNumber = stringPtr(*req.EnrollmentNumber)
		}
		if req.Semester != nil {
			semester := *req.Semester
			user.Semester = &semester
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		user.DropForeignFields()

		message := "invalid " + string(user.Role) + " account"
		if user.Role != previousRole {
			message = "invalid role transition"
		}
		if err := s.validateAccount(user, message); err != nil {
			return nil, err
		}
		if req.Department != nil {
			if err := s.checkDepartment(ctx, user.DepartmentID); err != nil {
				return nil, err
			}
		}
		if err := s.checkUnique(ctx, user, user.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, writeError(err, "email or enrollment number already exists", "failed to update user")
	}

	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionUserUpdate, "user", user.ID, req)
	if user.Role != previousRole {
		s.cache.Invalidate(ctx, cachePatternDashboard)
	}

	if err := s.populate(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateStatus activates or deactivates an account.
func (s *UserService) UpdateStatus(ctx context.Context, actor models.Actor, id string, req models.UpdateUserStatusRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, internalError(err, "failed to update user status")
	}
	user.Status = req.Status

	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionUserStatus, "user", id, req)

	if err := s.populate(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user permanently.
func (s *UserService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "user not found", "failed to delete user")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionUserDelete, "user", id, nil)
	s.cache.Invalidate(ctx, cachePatternDashboard)
	return nil
}

func (s *UserService) validateAccount(user *models.User, message string) error {
	account, err := models.AccountOf(user)
	if err != nil {
		return validationError(err, message)
	}
	if err := s.validator.Struct(account); err != nil {
		return validationError(err, message)
	}
	return nil
}

func (s *UserService) checkDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil || s.departments == nil {
		return nil
	}
	if _, err := s.departments.FindByID(ctx, *departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "department not found")
		}
		return internalError(err, "failed to load department")
	}
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, user *models.User, excludeID string) error {
	if user.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, user.Email, excludeID)
		if err != nil {
			return internalError(err, "failed to check email uniqueness")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicate, "email already exists")
		}
	}
	if user.EnrollmentNumber != nil {
		exists, err := s.repo.ExistsByEnrollmentNumber(ctx, *user.EnrollmentNumber, excludeID)
		if err != nil {
			return internalError(err, "failed to check enrollment number uniqueness")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicate, "enrollment number already exists")
		}
	}
	return nil
}

func (s *UserService) populate(ctx context.Context, users []*models.User) error {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, deref(u.DepartmentID))
	}
	refs, err := refResolver{departments: s.departments}.departmentRefs(ctx, ids)
	if err != nil {
		return internalError(err, "failed to load departments")
	}
	for _, u := range users {
		u.Department = refs[deref(u.DepartmentID)]
	}
	return nil
}
