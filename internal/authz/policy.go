// Package authz holds the role based authorization table of the API.
package authz

import "github.com/noah-isme/college-erp-api/internal/models"

// Resource names a protected collection.
type Resource string

const (
	ResourceUser         Resource = "user"
	ResourceDepartment   Resource = "department"
	ResourceCourse       Resource = "course"
	ResourceAttendance   Resource = "attendance"
	ResourceMarks        Resource = "marks"
	ResourceLeave        Resource = "leave"
	ResourceAnnouncement Resource = "announcement"
	ResourceDashboard    Resource = "dashboard"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionStatus  Action = "status"
	ActionAssign  Action = "assign"
	ActionEnroll  Action = "enroll"
	ActionListAll Action = "list_all"
	ActionExport  Action = "export"
)

// Any matches every authenticated role.
const Any models.UserRole = "*"

var (
	adminOnly    = []models.UserRole{models.RoleAdmin}
	staff        = []models.UserRole{models.RoleAdmin, models.RoleFaculty}
	everyone     = []models.UserRole{Any}
	crudByAdmin  = map[Action][]models.UserRole{ActionCreate: adminOnly, ActionRead: everyone, ActionUpdate: adminOnly, ActionDelete: adminOnly}
	crudByStaff  = map[Action][]models.UserRole{ActionCreate: staff, ActionRead: everyone, ActionUpdate: staff, ActionDelete: staff, ActionExport: everyone}
	policyTable  = map[Resource]map[Action][]models.UserRole{}
	ownedActions = map[Resource]map[Action]bool{}
)

func init() {
	policyTable[ResourceUser] = map[Action][]models.UserRole{
		ActionCreate: adminOnly,
		ActionRead:   everyone,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
		ActionStatus: adminOnly,
	}
	policyTable[ResourceDepartment] = crudByAdmin
	policyTable[ResourceCourse] = merge(crudByAdmin, map[Action][]models.UserRole{
		ActionAssign: adminOnly,
		ActionEnroll: adminOnly,
	})
	policyTable[ResourceAttendance] = crudByStaff
	policyTable[ResourceMarks] = crudByStaff
	policyTable[ResourceLeave] = map[Action][]models.UserRole{
		ActionCreate:  everyone,
		ActionRead:    adminOnly,
		ActionListAll: adminOnly,
		ActionUpdate:  nil,
		ActionDelete:  adminOnly,
		ActionApprove: adminOnly,
	}
	policyTable[ResourceAnnouncement] = map[Action][]models.UserRole{
		ActionCreate: staff,
		ActionRead:   everyone,
		ActionUpdate: staff,
		ActionDelete: staff,
	}
	policyTable[ResourceDashboard] = map[Action][]models.UserRole{ActionRead: adminOnly}

	ownedActions[ResourceUser] = map[Action]bool{ActionUpdate: true}
	ownedActions[ResourceLeave] = map[Action]bool{ActionRead: true, ActionUpdate: true, ActionDelete: true}
}

// Allowed reports whether role may perform action on resource regardless of ownership.
func Allowed(role models.UserRole, resource Resource, action Action) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range policyTable[resource][action] {
		if r == Any || r == role {
			return true
		}
	}
	return false
}

// AllowedAsOwner extends Allowed with the owner rule: the owner of a record may perform the
// self-service actions of that resource (profile update, reading or editing one's own leave).
func AllowedAsOwner(role models.UserRole, resource Resource, action Action, isOwner bool) bool {
	if Allowed(role, resource, action) {
		return true
	}
	return isOwner && role.Valid() && ownedActions[resource][action]
}

// Roles lists the roles granted action on resource without ownership. Any is expanded.
func Roles(resource Resource, action Action) []models.UserRole {
	granted := policyTable[resource][action]
	for _, r := range granted {
		if r == Any {
			return []models.UserRole{models.RoleAdmin, models.RoleFaculty, models.RoleStudent}
		}
	}
	out := make([]models.UserRole, len(granted))
	copy(out, granted)
	return out
}

func merge(base, extra map[Action][]models.UserRole) map[Action][]models.UserRole {
	out := make(map[Action][]models.UserRole, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
