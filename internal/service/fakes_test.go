package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	seq   int
	err   error
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	repo := &memUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (m *memUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	out := []models.User{}
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.DepartmentID != "" && deref(u.DepartmentID) != filter.DepartmentID {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != excludeID && u.Email != "" && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ExistsByEnrollmentNumber(ctx context.Context, number, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != excludeID && deref(u.EnrollmentNumber) == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.Status = status
	m.users[id] = u
	return nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *memUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type memDepartmentRepo struct {
	mu          sync.Mutex
	departments map[string]models.Department
	seq         int
	createCalls int
}

func newMemDepartmentRepo(departments ...models.Department) *memDepartmentRepo {
	repo := &memDepartmentRepo{departments: map[string]models.Department{}}
	for _, d := range departments {
		repo.departments[d.ID] = d
	}
	return repo
}

func (m *memDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Department{}
	for _, d := range m.departments {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (m *memDepartmentRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Department
	for _, id := range ids {
		if d, ok := m.departments[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDepartmentRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.departments {
		if d.ID != excludeID && d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDepartmentRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.departments {
		if d.ID != excludeID && d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDepartmentRepo) Create(ctx context.Context, dept *models.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if dept.ID == "" {
		m.seq++
		dept.ID = fmt.Sprintf("dept-%d", m.seq)
	}
	m.departments[dept.ID] = *dept
	return nil
}

func (m *memDepartmentRepo) Update(ctx context.Context, dept *models.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.departments[dept.ID] = *dept
	return nil
}

func (m *memDepartmentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.departments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.departments, id)
	return nil
}

type memCourseRepo struct {
	mu          sync.Mutex
	courses     map[string]models.Course
	seq         int
	createCalls int
	createErr   error
}

func newMemCourseRepo(courses ...models.Course) *memCourseRepo {
	repo := &memCourseRepo{courses: map[string]models.Course{}}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (m *memCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Course{}
	for _, c := range m.courses {
		if filter.DepartmentID != "" && c.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.FacultyID != "" && deref(c.FacultyID) != filter.FacultyID {
			continue
		}
		if filter.Unassigned && c.FacultyID != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *memCourseRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.ID != excludeID && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if course.ID == "" {
		m.seq++
		course.ID = fmt.Sprintf("course-%d", m.seq)
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = *course
	return nil
}

func (m *memCourseRepo) AssignFaculty(ctx context.Context, id, facultyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.FacultyID = &facultyID
	m.courses[id] = c
	return nil
}

func (m *memCourseRepo) AddStudents(ctx context.Context, id string, studentIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return sql.ErrNoRows
	}
	for _, s := range studentIDs {
		if !c.HasStudent(s) {
			c.Students = append(c.Students, s)
		}
	}
	m.courses[id] = c
	return nil
}

func (m *memCourseRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

type memAttendanceRepo struct {
	mu       sync.Mutex
	records  []models.Attendance
	seq      int
	batchErr error
}

func (m *memAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Attendance{}
	for _, r := range m.records {
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memAttendanceRepo) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	record.ID = fmt.Sprintf("att-%d", m.seq)
	m.records = append(m.records, *record)
	return nil
}

func (m *memAttendanceRepo) CreateBatch(ctx context.Context, records []models.Attendance) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for i := range records {
		if err := m.Create(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memAttendanceRepo) Update(ctx context.Context, record *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == record.ID {
			m.records[i] = *record
		}
	}
	return nil
}

func (m *memAttendanceRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memMarksRepo struct {
	mu    sync.Mutex
	marks []models.Marks
	seq   int
}

func (m *memMarksRepo) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Marks{}
	for _, r := range m.marks {
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memMarksRepo) FindByID(ctx context.Context, id string) (*models.Marks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.marks {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memMarksRepo) Create(ctx context.Context, marks *models.Marks) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	marks.ID = fmt.Sprintf("marks-%d", m.seq)
	marks.Recompute()
	m.marks = append(m.marks, *marks)
	return nil
}

func (m *memMarksRepo) Update(ctx context.Context, marks *models.Marks) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	marks.Recompute()
	for i := range m.marks {
		if m.marks[i].ID == marks.ID {
			m.marks[i] = *marks
		}
	}
	return nil
}

func (m *memMarksRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.marks {
		if m.marks[i].ID == id {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memLeaveRepo struct {
	mu     sync.Mutex
	leaves map[string]models.Leave
	seq    int
}

func newMemLeaveRepo(leaves ...models.Leave) *memLeaveRepo {
	repo := &memLeaveRepo{leaves: map[string]models.Leave{}}
	for _, l := range leaves {
		repo.leaves[l.ID] = l
	}
	return repo
}

func (m *memLeaveRepo) List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Leave{}
	for _, l := range m.leaves {
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memLeaveRepo) FindByID(ctx context.Context, id string) (*models.Leave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &l, nil
}

func (m *memLeaveRepo) Create(ctx context.Context, leave *models.Leave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	leave.ID = fmt.Sprintf("leave-%d", m.seq)
	if leave.Status == "" {
		leave.Status = models.LeavePending
	}
	m.leaves[leave.ID] = *leave
	return nil
}

func (m *memLeaveRepo) Update(ctx context.Context, leave *models.Leave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[leave.ID] = *leave
	return nil
}

func (m *memLeaveRepo) Decide(ctx context.Context, id string, status models.LeaveStatus, approverID, remarks string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	l.ApprovedByID = &approverID
	if remarks != "" {
		l.Remarks = remarks
	}
	m.leaves[id] = l
	return nil
}

func (m *memLeaveRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leaves[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.leaves, id)
	return nil
}

type memAnnouncementRepo struct {
	mu    sync.Mutex
	items []models.Announcement
	seq   int
}

func (m *memAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Announcement{}
	for i := len(m.items) - 1; i >= 0; i-- {
		a := m.items[i]
		if filter.TargetRole != nil && a.TargetRole != *filter.TargetRole && a.TargetRole != models.TargetAll {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memAnnouncementRepo) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memAnnouncementRepo) Create(ctx context.Context, item *models.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	item.ID = fmt.Sprintf("ann-%d", m.seq)
	m.items = append(m.items, *item)
	return nil
}

func (m *memAnnouncementRepo) Update(ctx context.Context, item *models.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
		}
	}
	return nil
}

func (m *memAnnouncementRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memAuditRepo struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (m *memAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memAuditRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l.Action)
	}
	return out
}

type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: map[string][]byte{}}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

var (
	adminActor   = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	facultyActor = models.Actor{ID: "faculty-1", Role: models.RoleFaculty}
	studentActor = models.Actor{ID: "student-1", Role: models.RoleStudent}
)
