package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// LocalityKind selects between the two province children tables
type LocalityKind string

const (
	LocalityCity     LocalityKind = "cities"
	LocalityDistrict LocalityKind = "districts"
)

func (k LocalityKind) label() string {
	if k == LocalityCity {
		return "city"
	}
	return "district"
}

// LocationRepository handles provinces, cities and districts
type LocationRepository struct {
	db *db.PostgresDB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(database *db.PostgresDB) *LocationRepository {
	return &LocationRepository{db: database}
}

// ListProvinces returns all provinces ordered by name
func (r *LocationRepository) ListProvinces(ctx context.Context) ([]models.Province, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, `SELECT id, name FROM provinces ORDER BY name`)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing provinces")
		return nil, fmt.Errorf("error listing provinces: %w", err)
	}
	defer rows.Close()

	provinces := []models.Province{}
	for rows.Next() {
		var p models.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("error scanning province: %w", err)
		}
		provinces = append(provinces, p)
	}
	return provinces, rows.Err()
}

// GetProvince retrieves a province by ID
func (r *LocationRepository) GetProvince(ctx context.Context, id int64) (*models.Province, error) {
	var p models.Province
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT id, name FROM provinces WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("province not found")
		}
		return nil, fmt.Errorf("error retrieving province: %w", err)
	}
	return &p, nil
}

// CreateProvince inserts a province
func (r *LocationRepository) CreateProvince(ctx context.Context, p *models.Province) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `INSERT INTO provinces (name) VALUES ($1) RETURNING id`, p.Name).Scan(&p.ID)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("province already exists")
		}
		logger.Error().Err(err).Str("name", p.Name).Msg("Error creating province")
		return fmt.Errorf("error creating province: %w", err)
	}
	return nil
}

// UpdateProvince renames a province
func (r *LocationRepository) UpdateProvince(ctx context.Context, p *models.Province) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `UPDATE provinces SET name = $1 WHERE id = $2`, p.Name, p.ID)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("province already exists")
		}
		return fmt.Errorf("error updating province: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("province not found")
	}
	return nil
}

// DeleteProvince removes a province without cities or districts
func (r *LocationRepository) DeleteProvince(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM provinces WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrLocationInUse
		}
		logger.Error().Err(err).Int64("provinceID", id).Msg("Error deleting province")
		return fmt.Errorf("error deleting province: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("province not found")
	}
	return nil
}

// FindProvinceByName matches a province name case-insensitively
func (r *LocationRepository) FindProvinceByName(ctx context.Context, name string) (*models.Province, error) {
	var p models.Province
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, name FROM provinces WHERE LOWER(name) = LOWER($1)`, strings.TrimSpace(name),
	).Scan(&p.ID, &p.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("province %q not found", name))
		}
		return nil, fmt.Errorf("error finding province: %w", err)
	}
	return &p, nil
}

// ListLocalities returns the cities or districts of a province
func (r *LocationRepository) ListLocalities(ctx context.Context, kind LocalityKind, provinceID int64) ([]models.Locality, error) {
	sql, args, err := psql.Select("id", "province_id", "name").
		From(string(kind)).
		Where(squirrel.Eq{"province_id": provinceID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list localities SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Int64("provinceID", provinceID).Msg("Error listing localities")
		return nil, fmt.Errorf("error listing %s: %w", kind, err)
	}
	defer rows.Close()

	out := []models.Locality{}
	for rows.Next() {
		var c models.Locality
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", kind, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateLocality inserts a city or district
func (r *LocationRepository) CreateLocality(ctx context.Context, kind LocalityKind, c *models.Locality) error {
	sql, args, err := psql.Insert(string(kind)).
		Columns("province_id", "name").
		Values(c.ProvinceID, c.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.NewConflictError(fmt.Sprintf("%s name already exists in this province", kind.label()))
		case dberrors.IsForeignKeyError(err):
			return apperrors.NewResourceNotFoundError("province not found")
		}
		logger.Error().Err(err).Str("kind", string(kind)).Msg("Error creating locality")
		return fmt.Errorf("error creating %s: %w", kind, err)
	}
	return nil
}

// UpdateLocality renames or moves a city or district
func (r *LocationRepository) UpdateLocality(ctx context.Context, kind LocalityKind, c *models.Locality) error {
	sql, args, err := psql.Update(string(kind)).
		Set("province_id", c.ProvinceID).
		Set("name", c.Name).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.NewConflictError(fmt.Sprintf("%s name already exists in this province", kind.label()))
		case dberrors.IsForeignKeyError(err):
			return apperrors.NewResourceNotFoundError("province not found")
		}
		return fmt.Errorf("error updating %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s not found", kind.label()))
	}
	return nil
}

// DeleteLocality removes a city or district. Referencing HEIs and scholars are detached.
func (r *LocationRepository) DeleteLocality(ctx context.Context, kind LocalityKind, id int64) error {
	sql, args, err := psql.Delete(string(kind)).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrLocationInUse
		}
		return fmt.Errorf("error deleting %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s not found", kind.label()))
	}
	return nil
}

// FindLocalityByName matches a city or district of a province case-insensitively
func (r *LocationRepository) FindLocalityByName(ctx context.Context, kind LocalityKind, provinceID int64, name string) (*models.Locality, error) {
	sql, args, err := psql.Select("id", "province_id", "name").
		From(string(kind)).
		Where(squirrel.Eq{"province_id": provinceID}).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Locality
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID, &c.ProvinceID, &c.Name); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %q not found", kind.label(), name))
		}
		return nil, fmt.Errorf("error finding %s: %w", kind, err)
	}
	return &c, nil
}
