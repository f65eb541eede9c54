package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// LocatorSlipRepository handles database operations for locator slips
type LocatorSlipRepository struct {
	db *db.PostgresDB
}

// NewLocatorSlipRepository creates a new locator slip repository
func NewLocatorSlipRepository(database *db.PostgresDB) *LocatorSlipRepository {
	return &LocatorSlipRepository{db: database}
}

const locatorColumns = "id, employee_id, destination, purpose, slip_date, time_out, time_in, is_official, status, approved_by, created_at"

func scanLocatorSlip(row pgx.Row) (*models.LocatorSlip, error) {
	var s models.LocatorSlip
	if err := row.Scan(&s.ID, &s.EmployeeID, &s.Destination, &s.Purpose, &s.SlipDate, &s.TimeOut, &s.TimeIn,
		&s.IsOfficial, &s.Status, &s.ApprovedBy, &s.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("locator slip not found")
		}
		return nil, fmt.Errorf("error scanning locator slip: %w", err)
	}
	return &s, nil
}

// Create inserts a pending locator slip
func (r *LocatorSlipRepository) Create(ctx context.Context, s *models.LocatorSlip) error {
	s.Status = models.WorkflowPending
	sql, args, err := psql.Insert("locator_slips").
		Columns("employee_id", "destination", "purpose", "slip_date", "time_out", "time_in", "is_official", "status").
		Values(s.EmployeeID, s.Destination, s.Purpose, s.SlipDate, s.TimeOut, s.TimeIn, s.IsOfficial, s.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("employeeID", s.EmployeeID).Msg("Error creating locator slip")
		return fmt.Errorf("error creating locator slip: %w", err)
	}
	return nil
}

// GetByID retrieves a locator slip
func (r *LocatorSlipRepository) GetByID(ctx context.Context, id int64) (*models.LocatorSlip, error) {
	return scanLocatorSlip(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+locatorColumns+` FROM locator_slips WHERE id = $1`, id))
}

// List returns locator slips matching the filter
func (r *LocatorSlipRepository) List(ctx context.Context, f StaffDocumentFilter) ([]models.LocatorSlip, error) {
	sql, args, err := f.apply(psql.Select(locatorColumns).From("locator_slips"), "").
		OrderBy("slip_date DESC", "time_out DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing locator slips")
		return nil, fmt.Errorf("error listing locator slips: %w", err)
	}
	defer rows.Close()

	out := []models.LocatorSlip{}
	for rows.Next() {
		s, err := scanLocatorSlip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// SetTimeIn records the employee's return
func (r *LocatorSlipRepository) SetTimeIn(ctx context.Context, id int64, timeIn time.Time) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `UPDATE locator_slips SET time_in = $1 WHERE id = $2`, timeIn, id)
	if err != nil {
		return fmt.Errorf("error updating locator slip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("locator slip not found")
	}
	return nil
}

// SetStatus moves a pending slip to status
func (r *LocatorSlipRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return setWorkflowStatus(ctx, r.db.Conn(ctx), "locator_slips", id, status, approverID)
}
