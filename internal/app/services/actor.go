package services

import "github.com/yigit/scholaris/internal/app/models"

// Actor is the authenticated user on whose behalf a service call runs
type Actor struct {
	UserID    int64
	Role      models.Role
	ProgramID *int64
}

// CanAccessProgram reports whether the actor may work on programID.
// Only ADMIN accounts are scoped to a single program.
func (a Actor) CanAccessProgram(programID int64) bool {
	if a.Role != models.RoleAdmin {
		return true
	}
	return a.ProgramID != nil && *a.ProgramID == programID
}
