package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
)

type marksRepository interface {
	List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error)
	FindByID(ctx context.Context, id string) (*models.Marks, error)
	Create(ctx context.Context, marks *models.Marks) error
	Update(ctx context.Context, marks *models.Marks) error
	Delete(ctx context.Context, id string) error
}

// MarksService records assessment results and derives CGPA.
type MarksService struct {
	repo      marksRepository
	refs      refResolver
	cache     *CacheService
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarksService constructs the marks service.
func NewMarksService(repo marksRepository, courses courseLookup, users userLookup, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MarksService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{
		repo:      repo,
		refs:      refResolver{users: users, courses: courses},
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Create records a result. The faculty defaults to the caller and the percentage is derived.
func (s *MarksService) Create(ctx context.Context, actor models.Actor, req models.CreateMarksRequest) (*models.Marks, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid marks payload")
	}
	faculty := req.Faculty
	if faculty == "" {
		faculty = actor.ID
	}
	marks := &models.Marks{
		CourseID:      req.Course,
		StudentID:     req.Student,
		FacultyID:     faculty,
		ExamType:      req.ExamType,
		MarksObtained: *req.MarksObtained,
		TotalMarks:    req.TotalMarks,
		Grade:         req.Grade,
		Remarks:       req.Remarks,
	}
	if err := s.repo.Create(ctx, marks); err != nil {
		return nil, internalError(err, "failed to record marks")
	}
	s.metrics.RecordCreated("marks", 1)
	s.cache.Invalidate(ctx, marksSummaryKey(marks.StudentID))

	return s.one(ctx, *marks)
}

// List returns every result.
func (s *MarksService) List(ctx context.Context) ([]models.Marks, error) {
	return s.list(ctx, models.MarksFilter{})
}

// ListByCourse returns the results of a course.
func (s *MarksService) ListByCourse(ctx context.Context, courseID string) ([]models.Marks, error) {
	return s.list(ctx, models.MarksFilter{CourseID: courseID})
}

// StudentSummary returns a student's results with the credit weighted CGPA. The boolean reports
// whether the summary came from cache.
func (s *MarksService) StudentSummary(ctx context.Context, studentID string) (*models.MarksSummary, bool, error) {
	key := marksSummaryKey(studentID)
	var cached models.MarksSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	marks, err := s.repo.List(ctx, models.MarksFilter{StudentID: studentID})
	if err != nil {
		return nil, false, internalError(err, "failed to list marks")
	}
	courses, err := s.populate(ctx, marks)
	if err != nil {
		return nil, false, err
	}
	summary := &models.MarksSummary{Marks: marks, CGPA: CGPA(marks, courses)}

	s.cache.Set(ctx, key, summary, s.cacheTTL)
	return summary, false, nil
}

// Update applies a partial update; the percentage is recomputed on save.
func (s *MarksService) Update(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Marks, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid marks payload")
	}
	marks, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "marks not found", "failed to load marks")
	}
	if req.MarksObtained != nil {
		marks.MarksObtained = *req.MarksObtained
	}
	if req.TotalMarks != nil {
		marks.TotalMarks = *req.TotalMarks
	}
	if req.Grade != nil {
		marks.Grade = *req.Grade
	}
	if req.Remarks != nil {
		marks.Remarks = *req.Remarks
	}
	if err := s.repo.Update(ctx, marks); err != nil {
		return nil, lookupError(err, "marks not found", "failed to update marks")
	}
	s.cache.Invalidate(ctx, marksSummaryKey(marks.StudentID))

	return s.one(ctx, *marks)
}

// Delete removes a result.
func (s *MarksService) Delete(ctx context.Context, id string) error {
	marks, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "marks not found", "failed to load marks")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "marks not found", "failed to delete marks")
	}
	s.cache.Invalidate(ctx, marksSummaryKey(marks.StudentID))
	return nil
}

func (s *MarksService) one(ctx context.Context, marks models.Marks) (*models.Marks, error) {
	out := []models.Marks{marks}
	if _, err := s.populate(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *MarksService) list(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	marks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list marks")
	}
	if _, err := s.populate(ctx, marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// populate fills the course, student and faculty refs and returns the courses it resolved.
func (s *MarksService) populate(ctx context.Context, marks []models.Marks) (map[string]models.Course, error) {
	courseIDs := make([]string, 0, len(marks))
	userIDs := make([]string, 0, len(marks)*2)
	for _, m := range marks {
		courseIDs = append(courseIDs, m.CourseID)
		userIDs = append(userIDs, m.StudentID, m.FacultyID)
	}
	courses, err := s.refs.courseMap(ctx, courseIDs)
	if err != nil {
		return nil, internalError(err, "failed to load courses")
	}
	users, err := s.refs.userRefs(ctx, userIDs)
	if err != nil {
		return nil, internalError(err, "failed to load users")
	}
	for i := range marks {
		if c, ok := courses[marks[i].CourseID]; ok {
			marks[i].Course = c.Ref()
		}
		marks[i].Student = users[marks[i].StudentID]
		marks[i].Faculty = users[marks[i].FacultyID]
	}
	return courses, nil
}
