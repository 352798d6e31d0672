package repositories

import (
	"context"
	"errors"
	"fmt"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.MaterialOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error)
	List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error)
	// UpdateStatus moves an order from expected to target atomically: the
	// UPDATE is guarded by the expected status so two concurrent callers
	// cannot both advance the same order. A zero row count means the order
	// was not in the expected state.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) error
	UpdateTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) error
	// HasOpenOrder reports whether a TO_ORDER or ORDERED order exists for the
	// material/project pair. Used as the demand dedupe key.
	HasOpenOrder(ctx context.Context, materialID uuid.UUID, projectID *uuid.UUID) (bool, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, material_id, required_quantity, unit, project_id, requested_by, requested_at,
		status, priority, estimated_cost, currency, supplier, tracking_ref, notes, created_at, updated_at`

func (r *orderRepo) Create(ctx context.Context, o *models.MaterialOrder) error {
	query := `
		INSERT INTO material_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.MaterialID, o.RequiredQuantity, o.Unit, o.ProjectID, o.RequestedBy, o.RequestedAt,
		o.Status, o.Priority, o.EstimatedCost, o.Currency, o.Supplier, o.TrackingRef, o.Notes,
	)
	return err
}

func scanOrder(row pgx.Row) (*models.MaterialOrder, error) {
	o := &models.MaterialOrder{}
	err := row.Scan(
		&o.ID, &o.MaterialID, &o.RequiredQuantity, &o.Unit, &o.ProjectID, &o.RequestedBy, &o.RequestedAt,
		&o.Status, &o.Priority, &o.EstimatedCost, &o.Currency, &o.Supplier, &o.TrackingRef, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaterialOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM material_orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("order %s", id)
	}
	return o, err
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderFilter) ([]*models.MaterialOrder, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)

	queryBase := `SELECT ` + orderColumns + ` FROM material_orders WHERE TRUE`
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
	if filter.Status != nil {
		n++
		queryBase += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		n++
		queryBase += fmt.Sprintf(` AND priority = $%d`, n)
		args = append(args, *filter.Priority)
	}

	queryBase += ` ORDER BY requested_at DESC`
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

	var orders []*models.MaterialOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE material_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, target, id, expected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrVersionConflict
	}
	return nil
}

func (r *orderRepo) UpdateTracking(ctx context.Context, id uuid.UUID, supplier, trackingRef *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE material_orders
		SET supplier = COALESCE($1, supplier), tracking_ref = COALESCE($2, tracking_ref), updated_at = NOW()
		WHERE id = $3
	`, supplier, trackingRef, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("order %s", id)
	}
	return nil
}

func (r *orderRepo) HasOpenOrder(ctx context.Context, materialID uuid.UUID, projectID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM material_orders
			WHERE material_id = $1
				AND project_id IS NOT DISTINCT FROM $2
				AND status IN ($3, $4)
		)
	`, materialID, projectID, models.OrderStatusToOrder, models.OrderStatusOrdered).Scan(&exists)
	return exists, err
}
