package services

import (
	"fmt"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// checkDecision validates an approve/reject on a staff document owned by ownerID
func checkDecision(actor Actor, ownerID int64, current, next models.WorkflowStatus) error {
	if next != models.WorkflowApproved && next != models.WorkflowRejected {
		return fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidationFailed)
	}
	if !actor.Role.CanApproveStaffDocuments() {
		return apperrors.NewForbiddenError("your role cannot approve staff documents")
	}
	if actor.UserID == ownerID && actor.Role != models.RoleSuperAdmin {
		return apperrors.NewForbiddenError("you cannot approve your own document")
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: document is %s", apperrors.ErrInvalidTransition, current)
	}
	return nil
}

// checkCancel validates the owner withdrawing a pending document
func checkCancel(actor Actor, ownerID int64, current models.WorkflowStatus) error {
	if actor.UserID != ownerID {
		return apperrors.NewForbiddenError("only the owner may cancel this document")
	}
	if !current.CanTransitionTo(models.WorkflowCancelled) {
		return fmt.Errorf("%w: document is %s", apperrors.ErrInvalidTransition, current)
	}
	return nil
}

// checkView lets owners and approvers read a document
func checkView(actor Actor, ownerID int64) error {
	if actor.UserID == ownerID || actor.Role.CanApproveStaffDocuments() {
		return nil
	}
	return apperrors.NewForbiddenError("you cannot view this document")
}

// scopeEmployee restricts listings of non-approvers to their own documents
func scopeEmployee(actor Actor, requested int64) int64 {
	if actor.Role.CanApproveStaffDocuments() {
		return requested
	}
	return actor.UserID
}
