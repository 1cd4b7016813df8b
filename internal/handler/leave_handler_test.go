package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
)

type fakeLeaveSrv struct {
	actor    models.Actor
	decision models.LeaveDecisionRequest
	status   models.LeaveStatus
	err      error
}

func (f *fakeLeaveSrv) Create(_ context.Context, actor models.Actor, req models.CreateLeaveRequest) (*models.Leave, error) {
	f.actor = actor
	return &models.Leave{ID: "l1", UserID: actor.ID, LeaveType: req.LeaveType, Status: models.LeavePending}, nil
}

func (f *fakeLeaveSrv) ListAll(context.Context) ([]models.Leave, error) { return []models.Leave{}, nil }
func (f *fakeLeaveSrv) Pending(context.Context) ([]models.Leave, error) { return []models.Leave{}, nil }

func (f *fakeLeaveSrv) Mine(_ context.Context, actor models.Actor) ([]models.Leave, error) {
	f.actor = actor
	return []models.Leave{{ID: "l1", UserID: actor.ID}}, nil
}

func (f *fakeLeaveSrv) ByUser(_ context.Context, userID string) ([]models.Leave, error) {
	return []models.Leave{{ID: "l1", UserID: userID}}, nil
}

func (f *fakeLeaveSrv) Get(_ context.Context, actor models.Actor, id string) (*models.Leave, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Leave{ID: id, UserID: actor.ID}, nil
}

func (f *fakeLeaveSrv) Update(_ context.Context, _ models.Actor, id string, _ models.UpdateLeaveRequest) (*models.Leave, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Leave{ID: id}, nil
}

func (f *fakeLeaveSrv) Approve(_ context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error) {
	return f.decide(actor, id, req, models.LeaveApproved)
}

func (f *fakeLeaveSrv) Reject(_ context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error) {
	return f.decide(actor, id, req, models.LeaveRejected)
}

func (f *fakeLeaveSrv) decide(actor models.Actor, id string, req models.LeaveDecisionRequest, status models.LeaveStatus) (*models.Leave, error) {
	f.actor = actor
	f.decision = req
	f.status = status
	return &models.Leave{ID: id, Status: status, ApprovedByID: &actor.ID, Remarks: req.Remarks}, nil
}

func (f *fakeLeaveSrv) Delete(context.Context, models.Actor, string) error { return f.err }

func TestLeaveHandlerCreateUsesCaller(t *testing.T) {
	svc := &fakeLeaveSrv{}
	handler := NewLeaveHandler(svc)

	body := `{"leaveType":"sick","startDate":"2024-03-01","endDate":"2024-03-02","numberOfDays":2,"reason":"flu"}`
	c, rec := newTestContext(http.MethodPost, "/leaves", body, studentClaims)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "student-1", svc.actor.ID)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestLeaveHandlerDecisionAcceptsEmptyBody(t *testing.T) {
	svc := &fakeLeaveSrv{}
	handler := NewLeaveHandler(svc)

	c, rec := newTestContext(http.MethodPatch, "/leaves/l1/approve", "", adminClaims, gin.Param{Key: "id", Value: "l1"})
	handler.Approve(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LeaveApproved, svc.status)
	assert.Contains(t, rec.Body.String(), `"approvedById":"admin-1"`)

	c, rec = newTestContext(http.MethodPatch, "/leaves/l1/reject", `{"remarks":"exam week"}`, adminClaims, gin.Param{Key: "id", Value: "l1"})
	handler.Reject(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LeaveRejected, svc.status)
	assert.Equal(t, "exam week", svc.decision.Remarks)
}

func TestLeaveHandlerMine(t *testing.T) {
	svc := &fakeLeaveSrv{}
	handler := NewLeaveHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/leaves/my-leaves", "", studentClaims)
	handler.Mine(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", svc.actor.ID)
}

func TestLeaveHandlerPropagatesServiceErrors(t *testing.T) {
	svc := &fakeLeaveSrv{err: appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")}
	handler := NewLeaveHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/leaves/l9", "", studentClaims, gin.Param{Key: "id", Value: "l9"})
	handler.Get(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.err = appErrors.Clone(appErrors.ErrValidation, "only pending leaves can be modified")
	c, rec = newTestContext(http.MethodDelete, "/leaves/l9", "", studentClaims, gin.Param{Key: "id", Value: "l9"})
	handler.Delete(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
