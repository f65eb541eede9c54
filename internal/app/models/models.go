package models

// Role defines what a user may do in the system
type Role string

const (
	RoleSuperAdmin       Role = "SUPERADMIN"
	RoleAdmin            Role = "ADMIN" // scoped to a single program
	RoleSupervisor       Role = "SUPERVISOR"
	RoleAccountant       Role = "ACCOUNTANT"
	RoleRegionalDirector Role = "REGIONAL_DIRECTOR"
	RoleStaff            Role = "STAFF"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleAccountant, RoleRegionalDirector, RoleStaff:
		return true
	}
	return false
}

// CanApproveStaffDocuments reports whether r may approve leave, travel and locator documents.
func (r Role) CanApproveStaffDocuments() bool {
	return r == RoleSuperAdmin || r == RoleSupervisor || r == RoleRegionalDirector
}

// WorkflowStatus is the life cycle shared by staff documents
// (leave applications, locator slips, travel orders, claims, trip tickets).
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "PENDING"
	WorkflowApproved  WorkflowStatus = "APPROVED"
	WorkflowRejected  WorkflowStatus = "REJECTED"
	WorkflowCancelled WorkflowStatus = "CANCELLED"
)

// CanTransitionTo reports whether a document may move from s to next.
// Only pending documents move; every other state is terminal.
func (s WorkflowStatus) CanTransitionTo(next WorkflowStatus) bool {
	if s != WorkflowPending {
		return false
	}
	switch next {
	case WorkflowApproved, WorkflowRejected, WorkflowCancelled:
		return true
	}
	return false
}
