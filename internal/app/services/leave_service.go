package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// LeaveService handles leave applications
type LeaveService struct {
	tx        db.Transactor
	leaveRepo LeaveRepository
}

// NewLeaveService creates a new leave service instance
func NewLeaveService(tx db.Transactor, leaveRepo LeaveRepository) *LeaveService {
	return &LeaveService{tx: tx, leaveRepo: leaveRepo}
}

// FileLeave records a pending application. Days counts weekdays in the range.
func (s *LeaveService) FileLeave(ctx context.Context, actor Actor, req *dto.LeaveRequest) (*models.LeaveApplication, error) {
	leaveType := models.LeaveType(strings.ToUpper(req.LeaveType))
	if !leaveType.Valid() {
		return nil, fmt.Errorf("%w: unknown leave type %q", apperrors.ErrValidationFailed, req.LeaveType)
	}
	start, err := time.Parse(helpers.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	end, err := time.Parse(helpers.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidationFailed)
	}
	days := helpers.WeekdaysBetween(start, end)
	if days == 0 {
		return nil, fmt.Errorf("%w: the range contains no working days", apperrors.ErrValidationFailed)
	}

	l := &models.LeaveApplication{
		EmployeeID: actor.UserID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.WorkflowPending,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// two filings for the same employee must not both pass the overlap check
		if err := s.leaveRepo.LockEmployee(ctx, actor.UserID); err != nil {
			return err
		}
		overlap, err := s.leaveRepo.HasOverlap(ctx, actor.UserID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return apperrors.NewConflictError("the dates overlap another pending or approved leave application")
		}
		return s.leaveRepo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLeaves lists the actor's own applications, or anyone's for approvers
func (s *LeaveService) ListLeaves(ctx context.Context, actor Actor, filter repositories.StaffDocumentFilter) ([]models.LeaveApplication, error) {
	filter.EmployeeID = scopeEmployee(actor, filter.EmployeeID)
	return s.leaveRepo.List(ctx, filter)
}

// GetLeave retrieves an application visible to the actor
func (s *LeaveService) GetLeave(ctx context.Context, actor Actor, id int64) (*models.LeaveApplication, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkView(actor, l.EmployeeID); err != nil {
		return nil, err
	}
	return l, nil
}

// Decide approves or rejects a pending application
func (s *LeaveService) Decide(ctx context.Context, actor Actor, id int64, status models.WorkflowStatus) (*models.LeaveApplication, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, l.EmployeeID, l.Status, status); err != nil {
		return nil, err
	}
	approver := actor.UserID
	if err := s.leaveRepo.SetStatus(ctx, id, status, &approver); err != nil {
		return nil, err
	}
	return s.leaveRepo.GetByID(ctx, id)
}

// Cancel withdraws the actor's pending application
func (s *LeaveService) Cancel(ctx context.Context, actor Actor, id int64) (*models.LeaveApplication, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(actor, l.EmployeeID, l.Status); err != nil {
		return nil, err
	}
	if err := s.leaveRepo.SetStatus(ctx, id, models.WorkflowCancelled, nil); err != nil {
		return nil, err
	}
	return s.leaveRepo.GetByID(ctx, id)
}
