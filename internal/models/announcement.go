package models

import (
	"time"

	"github.com/lib/pq"
)

// AnnouncementTarget selects which role sees an announcement.
type AnnouncementTarget string

const (
	TargetAdmin   AnnouncementTarget = "admin"
	TargetFaculty AnnouncementTarget = "faculty"
	TargetStudent AnnouncementTarget = "student"
	TargetAll     AnnouncementTarget = "all"
)

// AnnouncementPriority defines ordering for announcements.
type AnnouncementPriority string

const (
	PriorityLow    AnnouncementPriority = "low"
	PriorityMedium AnnouncementPriority = "medium"
	PriorityHigh   AnnouncementPriority = "high"
)

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID           string               `db:"id" json:"id"`
	Title        string               `db:"title" json:"title"`
	Content      string               `db:"content" json:"content"`
	CreatedByID  string               `db:"created_by" json:"createdById"`
	DepartmentID *string              `db:"department_id" json:"departmentId,omitempty"`
	TargetRole   AnnouncementTarget   `db:"target_role" json:"targetRole"`
	Priority     AnnouncementPriority `db:"priority" json:"priority"`
	Attachments  pq.StringArray       `db:"attachments" json:"attachments"`
	ExpiresAt    *time.Time           `db:"expires_at" json:"expiresAt,omitempty"`
	CreatedAt    time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `db:"updated_at" json:"updatedAt"`
	CreatedBy    *UserRef             `db:"-" json:"createdBy,omitempty"`
	Department   *DepartmentRef       `db:"-" json:"department,omitempty"`
}

// CreateAnnouncementRequest publishes an announcement as the caller.
type CreateAnnouncementRequest struct {
	Title       string               `json:"title" validate:"required"`
	Content     string               `json:"content" validate:"required"`
	Department  string               `json:"department"`
	TargetRole  AnnouncementTarget   `json:"targetRole" validate:"omitempty,oneof=admin faculty student all"`
	Priority    AnnouncementPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Attachments []string             `json:"attachments"`
	ExpiresAt   *time.Time           `json:"expiresAt"`
}

// UpdateAnnouncementRequest edits the text or priority of an announcement.
type UpdateAnnouncementRequest struct {
	Title    *string               `json:"title" validate:"omitempty,min=1"`
	Content  *string               `json:"content" validate:"omitempty,min=1"`
	Priority *AnnouncementPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// AnnouncementFilter narrows the announcement feed. A target role also matches "all".
type AnnouncementFilter struct {
	TargetRole *AnnouncementTarget
}
