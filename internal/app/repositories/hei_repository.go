package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// HEIListParams holds filters and pagination for HEI listings
type HEIListParams struct {
	Search     string
	ProvinceID int64
	Type       models.HEIType
	Page       int
	Size       int
}

// HEIRepository handles database operations for higher education institutions
type HEIRepository struct {
	db *db.PostgresDB
}

// NewHEIRepository creates a new HEI repository
func NewHEIRepository(database *db.PostgresDB) *HEIRepository {
	return &HEIRepository{db: database}
}

func (r *HEIRepository) selectQuery() squirrel.SelectBuilder {
	return psql.Select(
		"h.id", "h.uii", "h.name", "h.type", "h.province_id", "h.city_id", "h.district_id",
		"COALESCE(p.name, '')", "COALESCE(c.name, '')", "h.created_at", "h.updated_at",
	).From("heis h").
		LeftJoin("provinces p ON p.id = h.province_id").
		LeftJoin("cities c ON c.id = h.city_id")
}

func scanHEI(row pgx.Row) (*models.HEI, error) {
	var h models.HEI
	err := row.Scan(&h.ID, &h.UII, &h.Name, &h.Type, &h.ProvinceID, &h.CityID, &h.DistrictID,
		&h.ProvinceName, &h.CityName, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrHEINotFound
		}
		logger.Error().Err(err).Msg("Error scanning HEI")
		return nil, err
	}
	return &h, nil
}

// Create inserts a new HEI
func (r *HEIRepository) Create(ctx context.Context, h *models.HEI) error {
	sql, args, err := psql.Insert("heis").
		Columns("uii", "name", "type", "province_id", "city_id", "district_id").
		Values(h.UII, h.Name, h.Type, h.ProvinceID, h.CityID, h.DistrictID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create HEI SQL")
		return err
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "heis_uii_key") {
			return apperrors.ErrHEIAlreadyExists
		}
		logger.Error().Err(err).Str("uii", h.UII).Msg("Error creating HEI")
		return fmt.Errorf("error creating HEI: %w", err)
	}
	return nil
}

// GetByID retrieves an HEI by ID
func (r *HEIRepository) GetByID(ctx context.Context, id int64) (*models.HEI, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"h.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanHEI(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// FindByNameOrUII resolves an HEI reference from a spreadsheet cell.
// A UII match wins over a name match.
func (r *HEIRepository) FindByNameOrUII(ctx context.Context, ref string) (*models.HEI, error) {
	ref = strings.TrimSpace(ref)
	sql, args, err := r.selectQuery().
		Where(squirrel.Or{
			squirrel.Eq{"h.uii": ref},
			squirrel.Expr("LOWER(h.name) = LOWER(?)", ref),
		}).
		OrderByClause("(h.uii = ?) DESC, h.id", ref).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanHEI(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// List returns a filtered page of HEIs
func (r *HEIRepository) List(ctx context.Context, params HEIListParams) ([]models.HEI, dto.PaginationInfo, error) {
	var where squirrel.And
	if params.Search != "" {
		term := "%" + strings.TrimSpace(params.Search) + "%"
		where = append(where, squirrel.Or{squirrel.ILike{"h.name": term}, squirrel.ILike{"h.uii": term}})
	}
	if params.ProvinceID > 0 {
		where = append(where, squirrel.Eq{"h.province_id": params.ProvinceID})
	}
	if params.Type != "" {
		where = append(where, squirrel.Eq{"h.type": params.Type})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("heis h").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count HEIs SQL")
		return nil, dto.PaginationInfo{}, err
	}
	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting HEIs")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting HEIs: %w", err)
	}

	pagination := helpers.NewPaginationInfo(total, params.Page, params.Size)
	if total == 0 {
		return []models.HEI{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sql, args, err := r.selectQuery().Where(where).OrderBy("h.name").Offset(offset).Limit(limit).ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing HEIs")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing HEIs: %w", err)
	}
	defer rows.Close()

	heis := []models.HEI{}
	for rows.Next() {
		h, err := scanHEI(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		heis = append(heis, *h)
	}
	return heis, pagination, rows.Err()
}

// Update modifies an HEI
func (r *HEIRepository) Update(ctx context.Context, h *models.HEI) error {
	sql, args, err := psql.Update("heis").
		Set("uii", h.UII).
		Set("name", h.Name).
		Set("type", h.Type).
		Set("province_id", h.ProvinceID).
		Set("city_id", h.CityID).
		Set("district_id", h.DistrictID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": h.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "heis_uii_key") {
			return apperrors.ErrHEIAlreadyExists
		}
		logger.Error().Err(err).Int64("heiID", h.ID).Msg("Error updating HEI")
		return fmt.Errorf("error updating HEI: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrHEINotFound
	}
	return nil
}

// Delete removes an HEI that no academic record references
func (r *HEIRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM heis WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrHEIHasRelations
		}
		logger.Error().Err(err).Int64("heiID", id).Msg("Error deleting HEI")
		return fmt.Errorf("error deleting HEI: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrHEINotFound
	}
	return nil
}
