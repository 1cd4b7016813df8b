package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/college-erp-api/internal/handler"
	"github.com/noah-isme/college-erp-api/internal/models"
)

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	switch token {
	case "admin":
		return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, nil
	case "student":
		return &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}, nil
	}
	return nil, errors.New("invalid token")
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handlers{
		Auth:         handler.NewAuthHandler(nil, nil),
		User:         handler.NewUserHandler(nil),
		Department:   handler.NewDepartmentHandler(nil),
		Course:       handler.NewCourseHandler(nil),
		Attendance:   handler.NewAttendanceHandler(nil),
		Marks:        handler.NewMarksHandler(nil),
		Leave:        handler.NewLeaveHandler(nil),
		Announcement: handler.NewAnnouncementHandler(nil),
		Dashboard:    handler.NewDashboardHandler(nil),
		Export:       handler.NewExportHandler(nil),
		Metrics:      handler.NewMetricsHandler(nil, okPinger{}, nil),
	}
	return New(Dependencies{Tokens: stubTokens{}}, h, opts)
}

func do(r *gin.Engine, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestOperationalRoutesSkipAuth(t *testing.T) {
	r := newTestRouter(Options{APIPrefix: "/api"})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", ""))
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/docs/index.html", ""))
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	r := newTestRouter(Options{APIPrefix: "/api", EnableDashboard: true})

	for _, path := range []string{"/api/auth/me", "/api/users", "/api/courses", "/api/leaves/my-leaves", "/api/dashboard/admin"} {
		assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, path, ""), path)
		assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, path, "forged"), path)
	}
}

func TestRoleGates(t *testing.T) {
	r := newTestRouter(Options{APIPrefix: "api/", EnableDashboard: true})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodGet, "/api/dashboard/admin"},
		{http.MethodPost, "/api/departments"},
		{http.MethodDelete, "/api/courses/c1"},
		{http.MethodPut, "/api/courses/c1/assign-faculty"},
		{http.MethodPost, "/api/attendance/bulk"},
		{http.MethodPost, "/api/marks"},
		{http.MethodGet, "/api/leaves/pending"},
		{http.MethodPatch, "/api/leaves/l1/approve"},
		{http.MethodPatch, "/api/users/u2/status"},
		{http.MethodPut, "/api/users/u2"},
		{http.MethodPost, "/api/announcements"},
	}
	for _, tc := range cases {
		assert.Equal(t, http.StatusForbidden, do(r, tc.method, tc.path, "student"), tc.method+" "+tc.path)
	}
}

func TestDashboardRouteCanBeDisabled(t *testing.T) {
	r := newTestRouter(Options{APIPrefix: "/api"})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/dashboard/admin", "admin"))
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/", normalizePrefix(""))
	assert.Equal(t, "/api", normalizePrefix("api/"))
	assert.Equal(t, "/api/v1", normalizePrefix("/api/v1/"))
}
