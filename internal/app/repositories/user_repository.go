package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{db: database}
}

const userColumns = "id, email, password_hash, first_name, last_name, role, program_id, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.ProgramID,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		logger.Error().Err(err).Msg("Error scanning user")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("email", "password_hash", "first_name", "last_name", "role", "program_id", "is_active").
		Values(strings.ToLower(u.Email), u.PasswordHash, u.FirstName, u.LastName, u.Role, u.ProgramID, u.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.NewConflictError("email already exists")
		}
		logger.Error().Err(err).Str("email", u.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))))
}

// List returns users, optionally restricted to a role
func (r *UserRepository) List(ctx context.Context, role models.Role) ([]models.User, error) {
	b := psql.Select(userColumns).From("users")
	if role != "" {
		b = b.Where(squirrel.Eq{"role": role})
	}
	sql, args, err := b.OrderBy("last_name", "first_name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update writes profile, role, program scope, active flag and password hash
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	sql, args, err := psql.Update("users").
		SetMap(map[string]interface{}{
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"role":          u.Role,
			"program_id":    u.ProgramID,
			"is_active":     u.IsActive,
			"password_hash": u.PasswordHash,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", u.ID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("user not found")
	}
	return nil
}
