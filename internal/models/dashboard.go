package models

import "time"

// AdminDashboard aggregates institution-wide counters.
type AdminDashboard struct {
	Users         int       `json:"users" db:"users"`
	Students      int       `json:"students" db:"students"`
	Faculty       int       `json:"faculty" db:"faculty"`
	Departments   int       `json:"departments" db:"departments"`
	Courses       int       `json:"courses" db:"courses"`
	PendingLeaves int       `json:"pendingLeaves" db:"pending_leaves"`
	GeneratedAt   time.Time `json:"generatedAt" db:"-"`
}
