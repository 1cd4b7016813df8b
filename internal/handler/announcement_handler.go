package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

type announcementService interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateAnnouncementRequest) (*models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	ListForRole(ctx context.Context, role string) ([]models.Announcement, error)
	Get(ctx context.Context, id string) (*models.Announcement, error)
	Update(ctx context.Context, id string, req models.UpdateAnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementHandler exposes the notice board.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// Create godoc
// @Summary Publish announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List announcements
// @Description Newest first
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ByRole godoc
// @Summary List announcements for a role
// @Description Includes announcements targeted at all roles
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Param role path string true "Role"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announcements/role/{role} [get]
func (h *AnnouncementHandler) ByRole(c *gin.Context) {
	items, err := h.service.ListForRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Update godoc
// @Summary Update announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Param payload body models.UpdateAnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req models.UpdateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete announcement
// @Tags Announcements
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
