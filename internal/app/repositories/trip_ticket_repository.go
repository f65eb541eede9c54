package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// TripTicketRepository handles database operations for trip tickets
type TripTicketRepository struct {
	db *db.PostgresDB
}

// NewTripTicketRepository creates a new trip ticket repository
func NewTripTicketRepository(database *db.PostgresDB) *TripTicketRepository {
	return &TripTicketRepository{db: database}
}

const tripColumns = "id, employee_id, travel_order_id, driver_name, vehicle_plate, destination, purpose, trip_date, odometer_start, odometer_end, fuel_liters::float8, status, approved_by, created_at"

func scanTripTicket(row pgx.Row) (*models.TripTicket, error) {
	var t models.TripTicket
	if err := row.Scan(&t.ID, &t.EmployeeID, &t.TravelOrderID, &t.DriverName, &t.VehiclePlate, &t.Destination,
		&t.Purpose, &t.TripDate, &t.OdometerStart, &t.OdometerEnd, &t.FuelLiters, &t.Status, &t.ApprovedBy,
		&t.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("trip ticket not found")
		}
		return nil, fmt.Errorf("error scanning trip ticket: %w", err)
	}
	return &t, nil
}

// Create inserts a pending trip ticket
func (r *TripTicketRepository) Create(ctx context.Context, t *models.TripTicket) error {
	t.Status = models.WorkflowPending
	sql, args, err := psql.Insert("trip_tickets").
		Columns("employee_id", "travel_order_id", "driver_name", "vehicle_plate", "destination", "purpose",
			"trip_date", "odometer_start", "odometer_end", "fuel_liters", "status").
		Values(t.EmployeeID, t.TravelOrderID, t.DriverName, t.VehiclePlate, t.Destination, t.Purpose,
			t.TripDate, t.OdometerStart, t.OdometerEnd, t.FuelLiters, t.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("employeeID", t.EmployeeID).Msg("Error creating trip ticket")
		return fmt.Errorf("error creating trip ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a trip ticket
func (r *TripTicketRepository) GetByID(ctx context.Context, id int64) (*models.TripTicket, error) {
	return scanTripTicket(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+tripColumns+` FROM trip_tickets WHERE id = $1`, id))
}

// List returns trip tickets matching the filter
func (r *TripTicketRepository) List(ctx context.Context, f StaffDocumentFilter) ([]models.TripTicket, error) {
	sql, args, err := f.apply(psql.Select(tripColumns).From("trip_tickets"), "").
		OrderBy("trip_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing trip tickets")
		return nil, fmt.Errorf("error listing trip tickets: %w", err)
	}
	defer rows.Close()

	out := []models.TripTicket{}
	for rows.Next() {
		t, err := scanTripTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Complete records the closing odometer reading and fuel used
func (r *TripTicketRepository) Complete(ctx context.Context, id int64, odometerEnd int, fuel float64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE trip_tickets SET odometer_end = $1, fuel_liters = $2 WHERE id = $3`, odometerEnd, fuel, id)
	if err != nil {
		return fmt.Errorf("error completing trip ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("trip ticket not found")
	}
	return nil
}

// SetStatus moves a pending ticket to status
func (r *TripTicketRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return setWorkflowStatus(ctx, r.db.Conn(ctx), "trip_tickets", id, status, approverID)
}
