package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// TravelRepository handles travel orders, their itineraries and claims
type TravelRepository struct {
	db *db.PostgresDB
}

// NewTravelRepository creates a new travel repository
func NewTravelRepository(database *db.PostgresDB) *TravelRepository {
	return &TravelRepository{db: database}
}

const travelOrderColumns = "id, employee_id, purpose, destination, departure_date, return_date, status, approved_by, created_at"

func scanTravelOrder(row pgx.Row) (*models.TravelOrder, error) {
	var o models.TravelOrder
	if err := row.Scan(&o.ID, &o.EmployeeID, &o.Purpose, &o.Destination, &o.DepartureDate, &o.ReturnDate,
		&o.Status, &o.ApprovedBy, &o.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("travel order not found")
		}
		return nil, fmt.Errorf("error scanning travel order: %w", err)
	}
	return &o, nil
}

// CreateOrder inserts a pending travel order and its itinerary legs
func (r *TravelRepository) CreateOrder(ctx context.Context, o *models.TravelOrder) error {
	o.Status = models.WorkflowPending
	sql, args, err := psql.Insert("travel_orders").
		Columns("employee_id", "purpose", "destination", "departure_date", "return_date", "status").
		Values(o.EmployeeID, o.Purpose, o.Destination, o.DepartureDate, o.ReturnDate, o.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	conn := r.db.Conn(ctx)
	if err := conn.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("employeeID", o.EmployeeID).Msg("Error creating travel order")
		return fmt.Errorf("error creating travel order: %w", err)
	}

	if len(o.Itineraries) == 0 {
		return nil
	}
	ins := psql.Insert("travel_itineraries").
		Columns("travel_order_id", "travel_date", "origin", "destination", "mode", "fare")
	for _, it := range o.Itineraries {
		ins = ins.Values(o.ID, it.TravelDate, it.Origin, it.Destination, it.Mode, it.Fare)
	}
	sql, args, err = ins.Suffix("RETURNING id").ToSql()
	if err != nil {
		return err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("travelOrderID", o.ID).Msg("Error creating itineraries")
		return fmt.Errorf("error creating itineraries: %w", err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&o.Itineraries[i].ID); err != nil {
			return fmt.Errorf("error scanning itinerary id: %w", err)
		}
		o.Itineraries[i].TravelOrderID = o.ID
	}
	return rows.Err()
}

// GetOrder retrieves a travel order with its itinerary
func (r *TravelRepository) GetOrder(ctx context.Context, id int64) (*models.TravelOrder, error) {
	o, err := scanTravelOrder(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+travelOrderColumns+` FROM travel_orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	o.Itineraries, err = r.ListItineraries(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListItineraries returns the legs of a travel order in date order
func (r *TravelRepository) ListItineraries(ctx context.Context, orderID int64) ([]models.TravelItinerary, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, travel_order_id, travel_date, origin, destination, mode, fare::float8
		 FROM travel_itineraries WHERE travel_order_id = $1 ORDER BY travel_date, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("error listing itineraries: %w", err)
	}
	defer rows.Close()

	out := []models.TravelItinerary{}
	for rows.Next() {
		var it models.TravelItinerary
		if err := rows.Scan(&it.ID, &it.TravelOrderID, &it.TravelDate, &it.Origin, &it.Destination, &it.Mode, &it.Fare); err != nil {
			return nil, fmt.Errorf("error scanning itinerary: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListOrders returns travel orders matching the filter
func (r *TravelRepository) ListOrders(ctx context.Context, f StaffDocumentFilter) ([]models.TravelOrder, error) {
	sql, args, err := f.apply(psql.Select(travelOrderColumns).From("travel_orders"), "").
		OrderBy("departure_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing travel orders")
		return nil, fmt.Errorf("error listing travel orders: %w", err)
	}
	defer rows.Close()

	out := []models.TravelOrder{}
	for rows.Next() {
		o, err := scanTravelOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// SetOrderStatus moves a pending order to status
func (r *TravelRepository) SetOrderStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return setWorkflowStatus(ctx, r.db.Conn(ctx), "travel_orders", id, status, approverID)
}

const travelClaimColumns = "id, travel_order_id, employee_id, fare_total::float8, per_diem_total::float8, total_amount::float8, status, approved_by, submitted_at"

func scanTravelClaim(row pgx.Row) (*models.TravelClaim, error) {
	var c models.TravelClaim
	if err := row.Scan(&c.ID, &c.TravelOrderID, &c.EmployeeID, &c.FareTotal, &c.PerDiemTotal, &c.TotalAmount,
		&c.Status, &c.ApprovedBy, &c.SubmittedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("travel claim not found")
		}
		return nil, fmt.Errorf("error scanning travel claim: %w", err)
	}
	return &c, nil
}

// CreateClaim inserts a claim; a second claim for the same order is a conflict
func (r *TravelRepository) CreateClaim(ctx context.Context, c *models.TravelClaim) error {
	c.Status = models.WorkflowPending
	sql, args, err := psql.Insert("travel_claims").
		Columns("travel_order_id", "employee_id", "fare_total", "per_diem_total", "total_amount", "status").
		Values(c.TravelOrderID, c.EmployeeID, c.FareTotal, c.PerDiemTotal, c.TotalAmount, c.Status).
		Suffix("RETURNING id, submitted_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID, &c.SubmittedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "travel_claims_order_key") {
			return apperrors.NewConflictError("a claim was already filed for this travel order")
		}
		logger.Error().Err(err).Int64("travelOrderID", c.TravelOrderID).Msg("Error creating travel claim")
		return fmt.Errorf("error creating travel claim: %w", err)
	}
	return nil
}

// GetClaim retrieves a travel claim
func (r *TravelRepository) GetClaim(ctx context.Context, id int64) (*models.TravelClaim, error) {
	return scanTravelClaim(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+travelClaimColumns+` FROM travel_claims WHERE id = $1`, id))
}

// ListClaims returns travel claims matching the filter
func (r *TravelRepository) ListClaims(ctx context.Context, f StaffDocumentFilter) ([]models.TravelClaim, error) {
	sql, args, err := f.apply(psql.Select(travelClaimColumns).From("travel_claims"), "").
		OrderBy("submitted_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing travel claims: %w", err)
	}
	defer rows.Close()

	out := []models.TravelClaim{}
	for rows.Next() {
		c, err := scanTravelClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// SetClaimStatus moves a pending claim to status
func (r *TravelRepository) SetClaimStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return setWorkflowStatus(ctx, r.db.Conn(ctx), "travel_claims", id, status, approverID)
}
