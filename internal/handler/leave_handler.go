package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type leaveService interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateLeaveRequest) (*models.Leave, error)
	ListAll(ctx context.Context) ([]models.Leave, error)
	Pending(ctx context.Context) ([]models.Leave, error)
	Mine(ctx context.Context, actor models.Actor) ([]models.Leave, error)
	ByUser(ctx context.Context, userID string) ([]models.Leave, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Leave, error)
	Update(ctx context.Context, actor models.Actor, id string, req models.UpdateLeaveRequest) (*models.Leave, error)
	Approve(ctx context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error)
	Reject(ctx context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// LeaveHandler exposes leave request endpoints.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(svc leaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// Create godoc
// @Summary Apply for leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	leave, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// List godoc
// @Summary List all leaves
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	h.respond(c, func(ctx context.Context) ([]models.Leave, error) { return h.service.ListAll(ctx) })
}

// Pending godoc
// @Summary List pending leaves
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leaves/pending [get]
func (h *LeaveHandler) Pending(c *gin.Context) {
	h.respond(c, func(ctx context.Context) ([]models.Leave, error) { return h.service.Pending(ctx) })
}

// Mine godoc
// @Summary List own leaves
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leaves/my-leaves [get]
func (h *LeaveHandler) Mine(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	h.respond(c, func(ctx context.Context) ([]models.Leave, error) { return h.service.Mine(ctx, actor) })
}

// ByUser godoc
// @Summary List leaves of a user
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/user/{userId} [get]
func (h *LeaveHandler) ByUser(c *gin.Context) {
	userID := c.Param("userId")
	h.respond(c, func(ctx context.Context) ([]models.Leave, error) { return h.service.ByUser(ctx, userID) })
}

func (h *LeaveHandler) respond(c *gin.Context, load func(context.Context) ([]models.Leave, error)) {
	leaves, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Get godoc
// @Summary Get leave
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	leave, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Update godoc
// @Summary Update pending leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Param payload body models.UpdateLeaveRequest true "Leave payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/{id} [put]
func (h *LeaveHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.UpdateLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	leave, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Approve godoc
// @Summary Approve leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Param payload body models.LeaveDecisionRequest false "Decision remarks"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/{id}/approve [patch]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Param payload body models.LeaveDecisionRequest false "Decision remarks"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/{id}/reject [patch]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type leaveDecision func(ctx context.Context, actor models.Actor, id string, req models.LeaveDecisionRequest) (*models.Leave, error)

func (h *LeaveHandler) decide(c *gin.Context, apply leaveDecision) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	// remarks are optional, so an empty body is accepted
	var req models.LeaveDecisionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	leave, err := apply(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Delete godoc
// @Summary Delete leave
// @Description Admins may delete any leave; requesters only while pending
// @Tags Leaves
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
