package repositories

import (
	"context"
	"fmt"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
)

// MovementRepository is append-and-query only. There is deliberately no
// update or delete: the ledger is the audit trail of record.
type MovementRepository interface {
	Append(ctx context.Context, movement *models.StockMovement) error
	Query(ctx context.Context, filter *models.MovementFilter) ([]*models.StockMovement, error)
	// SumDeltas folds the signed deltas for a material. Used by
	// reconciliation reporting against the stored stock value.
	SumDeltas(ctx context.Context, materialID uuid.UUID) (int64, error)
}

type movementRepo struct {
	db DB
}

func NewMovementRepo(db DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) Append(ctx context.Context, mv *models.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, material_id, delta, reason, project_id, element_id, order_id, actor, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		mv.ID, mv.MaterialID, mv.Delta, mv.Reason, mv.ProjectID, mv.ElementID, mv.OrderID, mv.Actor, mv.Note)
	return err
}

func (r *movementRepo) Query(ctx context.Context, filter *models.MovementFilter) ([]*models.StockMovement, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)

	queryBase := `
		SELECT id, material_id, delta, reason, project_id, element_id, order_id, actor, note, created_at
		FROM stock_movements
		WHERE TRUE
	`
	args := []interface{}{}
	n := 0

	if filter.MaterialID != nil {
		n++
		queryBase += fmt.Sprintf(` AND material_id = $%d`, n)
		args = append(args, *filter.MaterialID)
	}
	if filter.ProjectID != nil {
		n++
		queryBase += fmt.Sprintf(` AND project_id = $%d`, n)
		args = append(args, *filter.ProjectID)
	}
	if filter.Reason != nil {
		n++
		queryBase += fmt.Sprintf(` AND reason = $%d`, n)
		args = append(args, *filter.Reason)
	}
	if filter.From != nil {
		n++
		queryBase += fmt.Sprintf(` AND created_at >= $%d`, n)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		n++
		queryBase += fmt.Sprintf(` AND created_at <= $%d`, n)
		args = append(args, *filter.To)
	}

	queryBase += ` ORDER BY created_at DESC`
	n++
	queryBase += fmt.Sprintf(` LIMIT $%d`, n)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		n++
		queryBase += fmt.Sprintf(` OFFSET $%d`, n)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		mv := &models.StockMovement{}
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Delta, &mv.Reason,
			&mv.ProjectID, &mv.ElementID, &mv.OrderID, &mv.Actor, &mv.Note, &mv.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, mv)
	}
	return movements, rows.Err()
}

func (r *movementRepo) SumDeltas(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE material_id = $1`,
		materialID).Scan(&sum)
	return sum, err
}
