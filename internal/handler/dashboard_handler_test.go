package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type fakeDashboardSrv struct {
	resp *models.AdminDashboard
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Admin(context.Context) (*models.AdminDashboard, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerAdminSuccess(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &models.AdminDashboard{Users: 5, Students: 3, PendingLeaves: 1},
		hit:  true,
	})

	c, rec := newTestContext(http.MethodGet, "/dashboard/admin", "", adminClaims)
	middleware.WithResponseMeta()(c)
	handler.Admin(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")

	var summary models.AdminDashboard
	require.NoError(t, json.Unmarshal(envelope.Data, &summary))
	assert.Equal(t, 3, summary.Students)
	assert.Equal(t, 1, summary.PendingLeaves)
}

func TestDashboardHandlerAdminError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrInternal})

	c, rec := newTestContext(http.MethodGet, "/dashboard/admin", "", adminClaims)
	handler.Admin(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeEnvelope(t, rec).Error.Message)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	handler := NewDashboardHandler(nil)

	c, rec := newTestContext(http.MethodGet, "/dashboard/admin", "", adminClaims)
	handler.Admin(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
