package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/authz"
	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error)
	FindByID(ctx context.Context, id string) (*models.Leave, error)
	Create(ctx context.Context, leave *models.Leave) error
	Update(ctx context.Context, leave *models.Leave) error
	Decide(ctx context.Context, id string, status models.LeaveStatus, approverID, remarks string) error
	Delete(ctx context.Context, id string) error
}

// LeaveService handles leave requests and their approval.
type LeaveService struct {
	repo      leaveRepository
	users     userLookup
	audit     auditWriter
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, users userLookup, audit auditWriter, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, users: users, audit: audit, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create raises a leave for the caller.
func (s *LeaveService) Create(ctx context.Context, actor models.Actor, req models.CreateLeaveRequest) (*models.Leave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid leave payload")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, validationError(err, "invalid start date")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, validationError(err, "invalid end date")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not be before start date")
	}

	leave := &models.Leave{
		UserID:       actor.ID,
		LeaveType:    req.LeaveType,
		StartDate:    start,
		EndDate:      end,
		NumberOfDays: req.NumberOfDays,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       models.LeavePending,
		Attachments:  req.Attachments,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, internalError(err, "failed to create leave")
	}
	s.metrics.RecordCreated("leave", 1)
	s.cache.Invalidate(ctx, cachePatternDashboard)

	return s.one(ctx, *leave)
}

// ListAll returns every leave.
func (s *LeaveService) ListAll(ctx context.Context) ([]models.Leave, error) {
	return s.list(ctx, models.LeaveFilter{})
}

// Pending returns the leaves awaiting a decision.
func (s *LeaveService) Pending(ctx context.Context) ([]models.Leave, error) {
	status := models.LeavePending
	return s.list(ctx, models.LeaveFilter{Status: &status})
}

// Mine returns the caller's leaves.
func (s *LeaveService) Mine(ctx context.Context, actor models.Actor) ([]models.Leave, error) {
	return s.list(ctx, models.LeaveFilter{UserID: actor.ID})
}

// ByUser returns the leaves raised by a user.
func (s *LeaveService) ByUser(ctx context.Context, userID string) ([]models.Leave, error) {
	return s.list(ctx, models.LeaveFilter{UserID: userID})
}

// Get returns a leave visible to its requester and to admins.
func (s *LeaveService) Get(ctx context.Context, actor models.Actor, id string) (*models.Leave, error) {
	leave, err := s.load(ctx, actor, id, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.one(ctx, *leave)
}

// Update edits a leave. Only the requester may do so and only while it is pending.
func (s *LeaveService) Update(ctx context.Context, actor models.Actor, id string, req models.UpdateLeaveRequest) (*models.Leave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid leave payload")
	}
	leave, err := s.load(ctx, actor, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if leave.Status != models.LeavePending {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only pending leaves can be updated")
	}

	if req.LeaveType != nil {
		leave.LeaveType = *req.LeaveType
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, validationError(err, "invalid start date")
		}
		leave.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, validationError(err, "invalid end date")
		}
		leave.EndDate = end
	}
	if leave.EndDate.Before(leave.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not be before start date")
	}
	if req.NumberOfDays != nil {
		leave.NumberOfDays = *req.NumberOfDays
	}
	if req.Reason != nil {
		leave.Reason = strings.TrimSpace(*req.Reason)
	}
	if req.Attachments != nil {
		leave.Attachments = req.Attachments
	}

	if err := s.repo.Update(ctx, leave); err != nil {
		return nil, internalError(err, "failed to update leave")
	}
	return s.one(ctx, *leave)
}

// Approve marks a leave approved by the caller whatever its current status.
func (s *LeaveService) Approve(ctx context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error) {
	return s.decide(ctx, actor, id, models.LeaveApproved, req.Remarks)
}

// Reject marks a leave rejected by the caller whatever its current status.
func (s *LeaveService) Reject(ctx context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error) {
	return s.decide(ctx, actor, id, models.LeaveRejected, req.Remarks)
}

// Delete removes a leave. Admins may delete any leave; requesters only their pending ones.
func (s *LeaveService) Delete(ctx context.Context, actor models.Actor, id string) error {
	leave, err := s.load(ctx, actor, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && leave.Status != models.LeavePending {
		return appErrors.Clone(appErrors.ErrValidation, "only pending leaves can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "leave not found", "failed to delete leave")
	}
	s.cache.Invalidate(ctx, cachePatternDashboard)
	return nil
}

func (s *LeaveService) decide(ctx context.Context, actor models.Actor, id string, status models.LeaveStatus, remarks string) (*models.Leave, error) {
	if err := s.repo.Decide(ctx, id, status, actor.ID, remarks); err != nil {
		return nil, lookupError(err, "leave not found", "failed to record leave decision")
	}
	s.metrics.RecordLeaveDecision(string(status))

	action := models.AuditActionLeaveApprove
	if status == models.LeaveRejected {
		action = models.AuditActionLeaveReject
	}
	recordAudit(ctx, s.audit, s.logger, actor, action, "leave", id, map[string]string{"status": string(status), "remarks": remarks})
	s.cache.Invalidate(ctx, cachePatternDashboard)

	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "leave not found", "failed to load leave")
	}
	return s.one(ctx, *leave)
}

// load fetches a leave and applies the owner rule for action.
func (s *LeaveService) load(ctx context.Context, actor models.Actor, id string, action authz.Action) (*models.Leave, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "leave not found", "failed to load leave")
	}
	if !authz.AllowedAsOwner(actor.Role, authz.ResourceLeave, action, leave.UserID == actor.ID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to access this leave")
	}
	return leave, nil
}

func (s *LeaveService) one(ctx context.Context, leave models.Leave) (*models.Leave, error) {
	out := []models.Leave{leave}
	if err := s.populate(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *LeaveService) list(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error) {
	leaves, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list leaves")
	}
	if err := s.populate(ctx, leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (s *LeaveService) populate(ctx context.Context, leaves []models.Leave) error {
	ids := make([]string, 0, len(leaves)*2)
	for _, l := range leaves {
		ids = append(ids, l.UserID, deref(l.ApprovedByID))
	}
	users, err := refResolver{users: s.users}.userRefs(ctx, ids)
	if err != nil {
		return internalError(err, "failed to load users")
	}
	for i := range leaves {
		leaves[i].User = users[leaves[i].UserID]
		leaves[i].ApprovedBy = users[deref(leaves[i].ApprovedByID)]
	}
	return nil
}
