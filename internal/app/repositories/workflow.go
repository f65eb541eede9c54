package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// StaffDocumentFilter narrows listings of leave, locator, travel and trip documents
type StaffDocumentFilter struct {
	EmployeeID int64
	Status     models.WorkflowStatus
}

func (f StaffDocumentFilter) apply(b squirrel.SelectBuilder, prefix string) squirrel.SelectBuilder {
	if f.EmployeeID > 0 {
		b = b.Where(squirrel.Eq{prefix + "employee_id": f.EmployeeID})
	}
	if f.Status != "" {
		b = b.Where(squirrel.Eq{prefix + "status": f.Status})
	}
	return b
}

// setWorkflowStatus moves a pending document of table to status. A document
// that is no longer pending yields ErrInvalidTransition.
func setWorkflowStatus(ctx context.Context, conn db.DBTX, table string, id int64, status models.WorkflowStatus, approverID *int64) error {
	b := psql.Update(table).
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": models.WorkflowPending})
	if approverID != nil {
		b = b.Set("approved_by", *approverID)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error updating workflow status")
		return fmt.Errorf("error updating %s status: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document is no longer pending", apperrors.ErrInvalidTransition)
	}
	return nil
}
