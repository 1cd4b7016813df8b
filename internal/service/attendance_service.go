package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	Create(ctx context.Context, record *models.Attendance) error
	CreateBatch(ctx context.Context, records []models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id string) error
}

// AttendanceService coordinates attendance workflows.
type AttendanceService struct {
	repo      attendanceRepository
	refs      refResolver
	cache     *CacheService
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, courses courseLookup, users userLookup, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:      repo,
		refs:      refResolver{users: users, courses: courses},
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Create records one attendance entry. The faculty defaults to the caller.
func (s *AttendanceService) Create(ctx context.Context, actor models.Actor, req models.CreateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}
	record, err := attendanceFromRequest(actor, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, internalError(err, "failed to record attendance")
	}
	s.metrics.RecordCreated("attendance", 1)
	s.cache.Invalidate(ctx, attendanceSummaryPattern(record.StudentID))

	records := []models.Attendance{record}
	if err := s.populate(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Bulk records several entries in one transaction. Either all are stored or none.
func (s *AttendanceService) Bulk(ctx context.Context, actor models.Actor, req models.BulkAttendanceRequest) ([]models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid bulk attendance payload")
	}
	records := make([]models.Attendance, 0, len(req.Records))
	for _, item := range req.Records {
		record, err := attendanceFromRequest(actor, item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, internalError(err, "failed to record attendance")
	}
	s.metrics.RecordCreated("attendance", len(records))

	students := make([]string, 0, len(records))
	for _, r := range records {
		students = append(students, r.StudentID)
	}
	for _, sid := range uniqueIDs(students) {
		s.cache.Invalidate(ctx, attendanceSummaryPattern(sid))
	}

	if err := s.populate(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// List returns every attendance record, newest first.
func (s *AttendanceService) List(ctx context.Context) ([]models.Attendance, error) {
	return s.list(ctx, models.AttendanceFilter{})
}

// ListByCourse returns the attendance of a course.
func (s *AttendanceService) ListByCourse(ctx context.Context, courseID string) ([]models.Attendance, error) {
	return s.list(ctx, models.AttendanceFilter{CourseID: courseID})
}

// StudentSummary returns a student's attendance, optionally restricted to one course, with the
// present percentage. The boolean reports whether the summary came from cache.
func (s *AttendanceService) StudentSummary(ctx context.Context, studentID, courseID string) (*models.AttendanceSummary, bool, error) {
	key := attendanceSummaryKey(studentID, courseID)
	var cached models.AttendanceSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	records, err := s.list(ctx, models.AttendanceFilter{StudentID: studentID, CourseID: courseID})
	if err != nil {
		return nil, false, err
	}
	percentage, total, present := AttendancePercentage(records)
	summary := &models.AttendanceSummary{Attendance: records, Percentage: percentage, Total: total, Present: present}

	s.cache.Set(ctx, key, summary, s.cacheTTL)
	return summary, false, nil
}

// Update changes the status or remarks of a record.
func (s *AttendanceService) Update(ctx context.Context, id string, req models.UpdateAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "attendance record not found", "failed to load attendance")
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.Remarks != nil {
		record.Remarks = *req.Remarks
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, lookupError(err, "attendance not found", "failed to update attendance")
	}
	s.cache.Invalidate(ctx, attendanceSummaryPattern(record.StudentID))

	records := []models.Attendance{*record}
	if err := s.populate(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Delete removes a record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "attendance record not found", "failed to load attendance")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "attendance record not found", "failed to delete attendance")
	}
	s.cache.Invalidate(ctx, attendanceSummaryPattern(record.StudentID))
	return nil
}

func (s *AttendanceService) list(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list attendance")
	}
	if err := s.populate(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *AttendanceService) populate(ctx context.Context, records []models.Attendance) error {
	courseIDs := make([]string, 0, len(records))
	userIDs := make([]string, 0, len(records)*2)
	for _, r := range records {
		courseIDs = append(courseIDs, r.CourseID)
		userIDs = append(userIDs, r.StudentID, r.FacultyID)
	}
	courses, err := s.refs.courseMap(ctx, courseIDs)
	if err != nil {
		return internalError(err, "failed to load courses")
	}
	users, err := s.refs.userRefs(ctx, userIDs)
	if err != nil {
		return internalError(err, "failed to load users")
	}
	for i := range records {
		if c, ok := courses[records[i].CourseID]; ok {
			records[i].Course = c.Ref()
		}
		records[i].Student = users[records[i].StudentID]
		records[i].Faculty = users[records[i].FacultyID]
	}
	return nil
}

func attendanceFromRequest(actor models.Actor, req models.CreateAttendanceRequest) (models.Attendance, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return models.Attendance{}, validationError(err, "invalid attendance date")
	}
	faculty := req.Faculty
	if faculty == "" {
		faculty = actor.ID
	}
	return models.Attendance{
		CourseID:  req.Course,
		StudentID: req.Student,
		FacultyID: faculty,
		Date:      date,
		Status:    req.Status,
		Remarks:   req.Remarks,
	}, nil
}
