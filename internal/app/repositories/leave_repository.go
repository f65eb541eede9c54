package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// LeaveRepository handles database operations for leave applications
type LeaveRepository struct {
	db *db.PostgresDB
}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository(database *db.PostgresDB) *LeaveRepository {
	return &LeaveRepository{db: database}
}

const leaveColumns = "id, employee_id, leave_type, start_date, end_date, days, reason, status, approved_by, created_at"

func scanLeave(row pgx.Row) (*models.LeaveApplication, error) {
	var l models.LeaveApplication
	if err := row.Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Days, &l.Reason,
		&l.Status, &l.ApprovedBy, &l.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("leave application not found")
		}
		return nil, fmt.Errorf("error scanning leave application: %w", err)
	}
	return &l, nil
}

// Create inserts a pending leave application
func (r *LeaveRepository) Create(ctx context.Context, l *models.LeaveApplication) error {
	l.Status = models.WorkflowPending
	sql, args, err := psql.Insert("leave_applications").
		Columns("employee_id", "leave_type", "start_date", "end_date", "days", "reason", "status").
		Values(l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.Days, l.Reason, l.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&l.ID, &l.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("employeeID", l.EmployeeID).Msg("Error creating leave application")
		return fmt.Errorf("error creating leave application: %w", err)
	}
	return nil
}

// GetByID retrieves a leave application
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*models.LeaveApplication, error) {
	return scanLeave(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_applications WHERE id = $1`, id))
}

// List returns leave applications matching the filter, latest start first
func (r *LeaveRepository) List(ctx context.Context, f StaffDocumentFilter) ([]models.LeaveApplication, error) {
	sql, args, err := f.apply(psql.Select(leaveColumns).From("leave_applications"), "").
		OrderBy("start_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing leave applications")
		return nil, fmt.Errorf("error listing leave applications: %w", err)
	}
	defer rows.Close()

	out := []models.LeaveApplication{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// LockEmployee locks the employee's user row until the surrounding
// transaction ends, serializing leave filings per employee. Must be called
// inside RunInTx.
func (r *LeaveRepository) LockEmployee(ctx context.Context, employeeID int64) error {
	var id int64
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, employeeID).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError("employee not found")
		}
		logger.Error().Err(err).Int64("employeeID", employeeID).Msg("Error locking employee for leave filing")
		return fmt.Errorf("error locking employee: %w", err)
	}
	return nil
}

// HasOverlap reports whether the employee has a pending or approved leave intersecting [start, end]
func (r *LeaveRepository) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	sql, args, err := psql.Select("1").
		From("leave_applications").
		Where(squirrel.Eq{"employee_id": employeeID, "status": []models.WorkflowStatus{models.WorkflowPending, models.WorkflowApproved}}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("employeeID", employeeID).Msg("Error checking leave overlap")
		return false, fmt.Errorf("error checking leave overlap: %w", err)
	}
	return exists, nil
}

// SetStatus moves a pending application to status
func (r *LeaveRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return setWorkflowStatus(ctx, r.db.Conn(ctx), "leave_applications", id, status, approverID)
}
