package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// RequirementRepository handles program requirements and uploaded attachments
type RequirementRepository struct {
	db *db.PostgresDB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(database *db.PostgresDB) *RequirementRepository {
	return &RequirementRepository{db: database}
}

// ListRequirements returns the requirements of a program
func (r *RequirementRepository) ListRequirements(ctx context.Context, programID int64) ([]models.Requirement, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, program_id, name, description, is_required FROM requirements WHERE program_id = $1 ORDER BY name`,
		programID)
	if err != nil {
		logger.Error().Err(err).Int64("programID", programID).Msg("Error listing requirements")
		return nil, fmt.Errorf("error listing requirements: %w", err)
	}
	defer rows.Close()

	out := []models.Requirement{}
	for rows.Next() {
		var req models.Requirement
		if err := rows.Scan(&req.ID, &req.ProgramID, &req.Name, &req.Description, &req.IsRequired); err != nil {
			return nil, fmt.Errorf("error scanning requirement: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// GetRequirement retrieves a requirement by ID
func (r *RequirementRepository) GetRequirement(ctx context.Context, id int64) (*models.Requirement, error) {
	var req models.Requirement
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, program_id, name, description, is_required FROM requirements WHERE id = $1`, id,
	).Scan(&req.ID, &req.ProgramID, &req.Name, &req.Description, &req.IsRequired)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("requirement not found")
		}
		return nil, fmt.Errorf("error retrieving requirement: %w", err)
	}
	return &req, nil
}

// CreateRequirement inserts a requirement
func (r *RequirementRepository) CreateRequirement(ctx context.Context, req *models.Requirement) error {
	sql, args, err := psql.Insert("requirements").
		Columns("program_id", "name", "description", "is_required").
		Values(req.ProgramID, req.Name, req.Description, req.IsRequired).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&req.ID); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("requirement with this name already exists")
		}
		logger.Error().Err(err).Msg("Error creating requirement")
		return fmt.Errorf("error creating requirement: %w", err)
	}
	return nil
}

// UpdateRequirement modifies a requirement
func (r *RequirementRepository) UpdateRequirement(ctx context.Context, req *models.Requirement) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE requirements SET name = $1, description = $2, is_required = $3 WHERE id = $4`,
		req.Name, req.Description, req.IsRequired, req.ID)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("requirement with this name already exists")
		}
		return fmt.Errorf("error updating requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("requirement not found")
	}
	return nil
}

// DeleteRequirement removes a requirement; linked attachments keep their files
func (r *RequirementRepository) DeleteRequirement(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("requirement not found")
	}
	return nil
}

// MissingRequired lists required requirements of a program the scholar has no attachment for
func (r *RequirementRepository) MissingRequired(ctx context.Context, programID, scholarID int64) ([]models.Requirement, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT q.id, q.program_id, q.name, q.description, q.is_required
		FROM requirements q
		WHERE q.program_id = $1 AND q.is_required
		  AND NOT EXISTS (
		    SELECT 1 FROM attachments a
		    WHERE a.requirement_id = q.id AND a.attachable_type = $2 AND a.attachable_id = $3
		  )
		ORDER BY q.name`,
		programID, models.AttachableScholar, scholarID)
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", scholarID).Msg("Error checking compliance")
		return nil, fmt.Errorf("error checking compliance: %w", err)
	}
	defer rows.Close()

	out := []models.Requirement{}
	for rows.Next() {
		var req models.Requirement
		if err := rows.Scan(&req.ID, &req.ProgramID, &req.Name, &req.Description, &req.IsRequired); err != nil {
			return nil, fmt.Errorf("error scanning requirement: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

const attachmentColumns = "id, requirement_id, attachable_type, attachable_id, file_name, file_url, file_size, mime_type, uploaded_by, created_at"

// CreateAttachment records an uploaded file
func (r *RequirementRepository) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	sql, args, err := psql.Insert("attachments").
		Columns("requirement_id", "attachable_type", "attachable_id", "file_name", "file_url", "file_size", "mime_type", "uploaded_by").
		Values(a.RequirementID, a.AttachableType, a.AttachableID, a.FileName, a.FileURL, a.FileSize, a.MimeType, a.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create attachment SQL")
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		logger.Error().Err(err).Str("type", string(a.AttachableType)).Int64("attachableID", a.AttachableID).Msg("Error creating attachment")
		return fmt.Errorf("error creating attachment: %w", err)
	}
	return nil
}

// ListAttachments returns the attachments of a record
func (r *RequirementRepository) ListAttachments(ctx context.Context, t models.AttachableType, id int64) ([]models.Attachment, error) {
	sql, args, err := psql.Select(attachmentColumns).
		From("attachments").
		Where(squirrel.Eq{"attachable_type": t, "attachable_id": id}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	defer rows.Close()

	out := []models.Attachment{}
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.RequirementID, &a.AttachableType, &a.AttachableID, &a.FileName,
			&a.FileURL, &a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attachment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAttachment retrieves an attachment
func (r *RequirementRepository) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	var a models.Attachment
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id).
		Scan(&a.ID, &a.RequirementID, &a.AttachableType, &a.AttachableID, &a.FileName,
			&a.FileURL, &a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("attachment not found")
		}
		return nil, fmt.Errorf("error retrieving attachment: %w", err)
	}
	return &a, nil
}

// DeleteAttachment removes an attachment row
func (r *RequirementRepository) DeleteAttachment(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("attachment not found")
	}
	return nil
}
