package repositories

import (
	"context"
	"errors"

	"matflow/internal/common"
	"matflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository interface {
	// CreateWithMovement inserts a new record together with its opening
	// ledger entry in one transaction. movement is nil when the record
	// starts empty.
	CreateWithMovement(ctx context.Context, record *models.InventoryRecord, movement *models.StockMovement) error
	GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error)
	// ListAll pages through every record; classification sweeps must not
	// stop at the pagination cap.
	ListAll(ctx context.Context) ([]*models.InventoryRecord, error)
	// SaveWithMovement commits a stock mutation and its ledger entry in one
	// transaction. The update is guarded by the record's version; a stale
	// version fails with ErrVersionConflict and nothing is applied.
	SaveWithMovement(ctx context.Context, record *models.InventoryRecord, movement *models.StockMovement) error
	// Save commits a non-stock mutation (reservation, level changes) with the
	// same version guard and no ledger entry.
	Save(ctx context.Context, record *models.InventoryRecord) error
	Delete(ctx context.Context, materialID uuid.UUID) error
}

type inventoryRepo struct {
	db DB
}

func NewInventoryRepo(db DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventoryColumns = `id, material_id, current_stock, reserved_quantity, available_quantity,
		min_stock_level, max_stock_level, reorder_point, lead_time_days, location, abc_class,
		version, last_updated`

func (r *inventoryRepo) CreateWithMovement(ctx context.Context, rec *models.InventoryRecord, mv *models.StockMovement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO inventory_records (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	_, err = tx.Exec(ctx, query,
		rec.ID, rec.MaterialID, rec.CurrentStock, rec.ReservedQuantity, rec.AvailableQuantity,
		rec.MinStockLevel, rec.MaxStockLevel, rec.ReorderPoint, rec.LeadTimeDays, rec.Location,
		rec.ABCClass, rec.Version,
	)
	if err != nil {
		return err
	}

	if mv != nil {
		if _, err := tx.Exec(ctx, movementInsertSQL,
			mv.ID, mv.MaterialID, mv.Delta, mv.Reason, mv.ProjectID, mv.ElementID, mv.OrderID, mv.Actor, mv.Note,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanInventory(row pgx.Row) (*models.InventoryRecord, error) {
	rec := &models.InventoryRecord{}
	err := row.Scan(
		&rec.ID, &rec.MaterialID, &rec.CurrentStock, &rec.ReservedQuantity, &rec.AvailableQuantity,
		&rec.MinStockLevel, &rec.MaxStockLevel, &rec.ReorderPoint, &rec.LeadTimeDays, &rec.Location,
		&rec.ABCClass, &rec.Version, &rec.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *inventoryRepo) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_records WHERE material_id = $1`
	rec, err := scanInventory(r.db.QueryRow(ctx, query, materialID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("inventory record for material %s", materialID)
	}
	return rec, err
}

func (r *inventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.InventoryRecord, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_records
		ORDER BY last_updated DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryInventory(ctx, query, limit, offset)
}

func (r *inventoryRepo) queryInventory(ctx context.Context, query string, args ...any) ([]*models.InventoryRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.InventoryRecord
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListAll pages on a stable id ordering so concurrent stock updates cannot
// shuffle records across page boundaries mid-sweep.
func (r *inventoryRepo) ListAll(ctx context.Context) ([]*models.InventoryRecord, error) {
	const pageSize = 1000
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_records
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	var all []*models.InventoryRecord
	for offset := 0; ; offset += pageSize {
		page, err := r.queryInventory(ctx, query, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

const movementInsertSQL = `
		INSERT INTO stock_movements (id, material_id, delta, reason, project_id, element_id, order_id, actor, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

const inventoryUpdateSQL = `
		UPDATE inventory_records
		SET current_stock = $1, reserved_quantity = $2, available_quantity = $3,
			min_stock_level = $4, max_stock_level = $5, reorder_point = $6,
			lead_time_days = $7, location = $8, abc_class = $9,
			version = version + 1, last_updated = NOW()
		WHERE material_id = $10 AND version = $11
	`

func (r *inventoryRepo) Save(ctx context.Context, rec *models.InventoryRecord) error {
	tag, err := r.db.Exec(ctx, inventoryUpdateSQL,
		rec.CurrentStock, rec.ReservedQuantity, rec.AvailableQuantity,
		rec.MinStockLevel, rec.MaxStockLevel, rec.ReorderPoint,
		rec.LeadTimeDays, rec.Location, rec.ABCClass,
		rec.MaterialID, rec.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrVersionConflict
	}
	rec.Version++
	return nil
}

func (r *inventoryRepo) SaveWithMovement(ctx context.Context, rec *models.InventoryRecord, mv *models.StockMovement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, inventoryUpdateSQL,
		rec.CurrentStock, rec.ReservedQuantity, rec.AvailableQuantity,
		rec.MinStockLevel, rec.MaxStockLevel, rec.ReorderPoint,
		rec.LeadTimeDays, rec.Location, rec.ABCClass,
		rec.MaterialID, rec.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrVersionConflict
	}

	// The movement insert shares the transaction so the mutation and its
	// audit entry commit together or not at all.
	_, err = tx.Exec(ctx, movementInsertSQL,
		mv.ID, mv.MaterialID, mv.Delta, mv.Reason, mv.ProjectID, mv.ElementID, mv.OrderID, mv.Actor, mv.Note)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	rec.Version++
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, materialID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_records WHERE material_id = $1`, materialID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("inventory record for material %s", materialID)
	}
	return nil
}
