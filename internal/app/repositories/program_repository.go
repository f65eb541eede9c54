package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// ProgramRepository handles database operations for programs
type ProgramRepository struct {
	db *db.PostgresDB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(database *db.PostgresDB) *ProgramRepository {
	return &ProgramRepository{db: database}
}

// List returns every program ordered by code
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	sql, args, err := psql.Select("id", "code", "name", "description").
		From("programs").
		OrderBy("id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list programs SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing programs")
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("error scanning program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetByCode retrieves a program by its code
func (r *ProgramRepository) GetByCode(ctx context.Context, code models.ProgramCode) (*models.Program, error) {
	var p models.Program
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, code, name, description FROM programs WHERE code = $1`, code,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Description)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Str("code", string(code)).Msg("Error retrieving program")
		return nil, fmt.Errorf("error retrieving program: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	var p models.Program
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, code, name, description FROM programs WHERE id = $1`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Description)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error retrieving program: %w", err)
	}
	return &p, nil
}

// Upsert inserts the program or refreshes its name and description
func (r *ProgramRepository) Upsert(ctx context.Context, p *models.Program) error {
	sql, args, err := psql.Insert("programs").
		Columns("code", "name", "description").
		Values(p.Code, p.Name, p.Description).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert program SQL")
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		logger.Error().Err(err).Str("code", string(p.Code)).Msg("Error upserting program")
		return fmt.Errorf("error upserting program: %w", err)
	}
	return nil
}
