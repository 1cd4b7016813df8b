package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	refs      refResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, users userLookup, departments departmentLookup, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		repo:      repo,
		refs:      refResolver{users: users, departments: departments},
		validator: validate,
		logger:    logger,
	}
}

// Create publishes an announcement authored by the caller. Target defaults to everyone and
// priority to medium.
func (s *AnnouncementService) Create(ctx context.Context, actor models.Actor, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid announcement payload")
	}
	item := &models.Announcement{
		Title:        strings.TrimSpace(req.Title),
		Content:      req.Content,
		CreatedByID:  actor.ID,
		DepartmentID: stringPtr(req.Department),
		TargetRole:   req.TargetRole,
		Priority:     req.Priority,
		Attachments:  req.Attachments,
		ExpiresAt:    req.ExpiresAt,
	}
	if item.TargetRole == "" {
		item.TargetRole = models.TargetAll
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, internalError(err, "failed to create announcement")
	}
	return s.one(ctx, *item)
}

// List returns every announcement, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return s.list(ctx, models.AnnouncementFilter{})
}

// ListForRole returns the announcements addressed to role or to everyone.
func (s *AnnouncementService) ListForRole(ctx context.Context, role string) ([]models.Announcement, error) {
	target := models.AnnouncementTarget(strings.ToLower(role))
	switch target {
	case models.TargetAdmin, models.TargetFaculty, models.TargetStudent, models.TargetAll:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	return s.list(ctx, models.AnnouncementFilter{TargetRole: &target})
}

// Get returns a single announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "announcement not found", "failed to load announcement")
	}
	return s.one(ctx, *item)
}

// Update edits the title, content or priority.
func (s *AnnouncementService) Update(ctx context.Context, id string, req models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid announcement payload")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "announcement not found", "failed to load announcement")
	}
	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, internalError(err, "failed to update announcement")
	}
	return s.one(ctx, *item)
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "announcement not found", "failed to delete announcement")
	}
	return nil
}

func (s *AnnouncementService) one(ctx context.Context, item models.Announcement) (*models.Announcement, error) {
	out := []models.Announcement{item}
	if err := s.populate(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *AnnouncementService) list(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list announcements")
	}
	if err := s.populate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *AnnouncementService) populate(ctx context.Context, items []models.Announcement) error {
	userIDs := make([]string, 0, len(items))
	deptIDs := make([]string, 0, len(items))
	for _, a := range items {
		userIDs = append(userIDs, a.CreatedByID)
		deptIDs = append(deptIDs, deref(a.DepartmentID))
	}
	authors, err := s.refs.userRefs(ctx, userIDs)
	if err != nil {
		return internalError(err, "failed to load authors")
	}
	departments, err := s.refs.departmentRefs(ctx, deptIDs)
	if err != nil {
		return internalError(err, "failed to load departments")
	}
	for i := range items {
		items[i].CreatedBy = authors[items[i].CreatedByID]
		items[i].Department = departments[deref(items[i].DepartmentID)]
	}
	return nil
}
