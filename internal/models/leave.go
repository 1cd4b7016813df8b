package models

import (
	"time"

	"github.com/lib/pq"
)

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveCasual    LeaveType = "casual"
	LeaveSick      LeaveType = "sick"
	LeaveEarned    LeaveType = "earned"
	LeaveEmergency LeaveType = "emergency"
	LeaveStudy     LeaveType = "study"
)

// LeaveStatus tracks the decision on a leave.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Leave is a time-off request raised by any user.
type Leave struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"userId"`
	LeaveType    LeaveType      `db:"leave_type" json:"leaveType"`
	StartDate    time.Time      `db:"start_date" json:"startDate"`
	EndDate      time.Time      `db:"end_date" json:"endDate"`
	NumberOfDays int            `db:"number_of_days" json:"numberOfDays"`
	Reason       string         `db:"reason" json:"reason"`
	Status       LeaveStatus    `db:"status" json:"status"`
	ApprovedByID *string        `db:"approved_by" json:"approvedById,omitempty"`
	Remarks      string         `db:"remarks" json:"remarks,omitempty"`
	Attachments  pq.StringArray `db:"attachments" json:"attachments"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
	User         *UserRef       `db:"-" json:"user,omitempty"`
	ApprovedBy   *UserRef       `db:"-" json:"approvedBy,omitempty"`
}

// LeaveFilter narrows leave listings.
type LeaveFilter struct {
	UserID string
	Status *LeaveStatus
}

// CreateLeaveRequest is a new leave raised by the caller.
type CreateLeaveRequest struct {
	LeaveType    LeaveType `json:"leaveType" validate:"required,oneof=casual sick earned emergency study"`
	StartDate    string    `json:"startDate" validate:"required"`
	EndDate      string    `json:"endDate" validate:"required"`
	NumberOfDays int       `json:"numberOfDays" validate:"required,min=1"`
	Reason       string    `json:"reason" validate:"required"`
	Attachments  []string  `json:"attachments"`
}

// UpdateLeaveRequest edits a pending leave.
type UpdateLeaveRequest struct {
	LeaveType    *LeaveType `json:"leaveType" validate:"omitempty,oneof=casual sick earned emergency study"`
	StartDate    *string    `json:"startDate"`
	EndDate      *string    `json:"endDate"`
	NumberOfDays *int       `json:"numberOfDays" validate:"omitempty,min=1"`
	Reason       *string    `json:"reason" validate:"omitempty,min=1"`
	Attachments  []string   `json:"attachments"`
}

// LeaveDecisionRequest approves or rejects a leave.
type LeaveDecisionRequest struct {
	Remarks string `json:"remarks"`
}
